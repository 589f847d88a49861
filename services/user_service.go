package services

import (
	"context"
	"errors"

	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/models"
	"github.com/talentboard/backend/repositories"
	"go.uber.org/zap"
)

// UserService handles user listing and administrative role management,
// gated by the authorization policy predicates.
type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// List returns the users visible to the caller. Staff-tier callers are
// implicitly scoped to Candidate users; admins see everyone.
func (s *UserService) List(ctx context.Context, id authz.Identity) ([]*models.User, error) {
	if err := authz.RequireRole(id, authz.TierStaff); err != nil {
		return nil, NewDomainError(ErrorTypeForbidden, "staff role required", err)
	}

	scope := authz.StaffViewScope(id)
	users, err := s.users.List(ctx, scope, id.SubjectID)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "failed to list users", err)
	}

	return users, nil
}

// UpdateRole sets the stored role for a target subject. Admin only, and
// changing one's own role is rejected regardless of role.
func (s *UserService) UpdateRole(ctx context.Context, id authz.Identity, targetSub, roleStr string) (authz.Role, error) {
	if err := authz.RequireRole(id, authz.TierAdmin); err != nil {
		return "", NewDomainError(ErrorTypeForbidden, "admin role required", err)
	}
	if err := authz.ForbidSelfTarget(id, targetSub); err != nil {
		return "", NewDomainError(ErrorTypeForbidden, "cannot change own role", err)
	}

	role, ok := authz.ParseRole(roleStr)
	if !ok {
		return "", ErrInvalidRole.WithDetail("role", roleStr)
	}

	if err := s.users.UpdateRole(ctx, targetSub, role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", NewDomainError(ErrorTypeInternal, "role update failed", err)
	}

	s.logger.Info("user role updated",
		zap.String("actor_sub", id.SubjectID),
		zap.String("target_sub", targetSub),
		zap.String("role", string(role)))
	return role, nil
}

// Delete removes a user record. Admin only; self-deletion is rejected.
func (s *UserService) Delete(ctx context.Context, id authz.Identity, targetSub string) error {
	if err := authz.RequireRole(id, authz.TierAdmin); err != nil {
		return NewDomainError(ErrorTypeForbidden, "admin role required", err)
	}
	if err := authz.ForbidSelfTarget(id, targetSub); err != nil {
		return NewDomainError(ErrorTypeForbidden, "cannot delete own account", err)
	}

	if err := s.users.Delete(ctx, targetSub); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return NewDomainError(ErrorTypeInternal, "user delete failed", err)
	}

	s.logger.Info("user deleted",
		zap.String("actor_sub", id.SubjectID),
		zap.String("target_sub", targetSub))
	return nil
}
