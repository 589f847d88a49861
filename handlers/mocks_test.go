package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/talentboard/backend/app"
	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/middleware"
	"github.com/talentboard/backend/models"
	"github.com/talentboard/backend/services"
	"go.uber.org/zap"
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

// testDeps wires real services over mock repositories, the way the router
// sees them
func testDeps(users *MockUserRepository, tasks *MockTaskRepository) *app.Dependencies {
	logger := zap.NewNop()
	return &app.Dependencies{
		Logger:      logger,
		Users:       users,
		Tasks:       tasks,
		UserService: services.NewUserService(users, logger),
		TaskService: services.NewTaskService(tasks, users, logger),
	}
}

// serveAs runs the handler through a chi route with the given identity already
// in context, mirroring a request that passed the authentication gate
func serveAs(identity *authz.Identity, method, pattern, target string, body *http.Request, handler http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)

	req := body
	if req == nil {
		req = httptest.NewRequest(method, target, nil)
	}
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func adminIdentity() *authz.Identity {
	return &authz.Identity{SubjectID: "sub-admin", Email: "admin@example.com", Role: authz.RoleAdmin}
}

func employeeIdentity() *authz.Identity {
	return &authz.Identity{SubjectID: "sub-emp", Email: "emp@example.com", Role: authz.RoleEmployee}
}

func candidateIdentity() *authz.Identity {
	return &authz.Identity{SubjectID: "sub-cand", Email: "cand@example.com", Role: authz.RoleCandidate}
}
