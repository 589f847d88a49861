package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/models"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindBySubject(ctx context.Context, cognitoSub string) (*models.User, error) {
	args := m.Called(ctx, cognitoSub)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) (authz.Role, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(authz.Role), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, cognitoSub string, role authz.Role) error {
	args := m.Called(ctx, cognitoSub, role)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, cognitoSub string) error {
	args := m.Called(ctx, cognitoSub)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, scope authz.ViewScope, selfSub string) ([]*models.User, error) {
	args := m.Called(ctx, scope, selfSub)
	if users := args.Get(0); users != nil {
		return users.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTaskRepository is a mock implementation of repositories.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if task := args.Get(0); task != nil {
		return task.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerSub string) ([]*models.Task, error) {
	args := m.Called(ctx, ownerSub)
	if tasks := args.Get(0); tasks != nil {
		return tasks.([]*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
