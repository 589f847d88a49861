package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/models"
	"github.com/talentboard/backend/repositories"
	"go.uber.org/zap"
)

// TaskService handles task CRUD with ownership-based authorization
type TaskService struct {
	tasks  repositories.TaskRepository
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(tasks repositories.TaskRepository, users repositories.UserRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		logger: logger,
	}
}

// ListFor returns the tasks owned by ownerSub, if the caller may see them.
// Owners and admins always may; staff may view a Candidate's tasks only,
// which requires one lookup of the target's stored role.
func (s *TaskService) ListFor(ctx context.Context, id authz.Identity, ownerSub string) ([]*models.Task, error) {
	ownerRole := authz.RoleCandidate
	if id.SubjectID != ownerSub && !id.Role.IsAdmin() {
		owner, err := s.users.FindBySubject(ctx, ownerSub)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewDomainError(ErrorTypeForbidden, "no access to these tasks", err)
			}
			return nil, NewDomainError(ErrorTypeInternal, "failed to look up task owner", err)
		}
		ownerRole = owner.Role
	}

	if err := authz.CanViewTasks(id, ownerSub, ownerRole); err != nil {
		return nil, NewDomainError(ErrorTypeForbidden, "no access to these tasks", err)
	}

	tasks, err := s.tasks.ListByOwner(ctx, ownerSub)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to list tasks", err)
	}

	return tasks, nil
}

// Create adds a task owned by the caller
func (s *TaskService) Create(ctx context.Context, id authz.Identity, text, status string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTask
	}

	task := models.NewTask(id.SubjectID, text, status)
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to create task", err)
	}

	s.logger.Debug("task created",
		zap.String("id", task.ID.String()),
		zap.String("owner_sub", id.SubjectID))
	return task, nil
}

// Delete removes a task. The owner may delete their own tasks; admins may
// delete any task.
func (s *TaskService) Delete(ctx context.Context, id authz.Identity, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTaskNotFound
		}
		return NewDomainError(ErrorTypeInternal, "failed to look up task", err)
	}

	if err := authz.RequireSelfOrRole(id, task.OwnerSub, authz.TierAdmin); err != nil {
		return NewDomainError(ErrorTypeForbidden, "cannot delete this task", err)
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTaskNotFound
		}
		return NewDomainError(ErrorTypeInternal, "failed to delete task", err)
	}

	s.logger.Debug("task deleted",
		zap.String("id", taskID.String()),
		zap.String("actor_sub", id.SubjectID))
	return nil
}
