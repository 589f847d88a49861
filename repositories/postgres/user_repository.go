package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/models"
	"github.com/talentboard/backend/repositories"
	"go.uber.org/zap"
)

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// FindBySubject retrieves a user by Cognito subject
func (r *UserRepository) FindBySubject(ctx context.Context, cognitoSub string) (*models.User, error) {
	query := `
		SELECT cognito_sub, email, display_name, role, created_at, updated_at
		FROM users
		WHERE cognito_sub = $1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, cognitoSub).Scan(
		&user.CognitoSub,
		&user.Email,
		&user.DisplayName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Upsert creates the user on first sight or refreshes the mutable display
// fields on subsequent sightings. The stored role is deliberately left alone
// on conflict so that a manual role change inside the store is never
// overwritten by stale token groups; the RETURNING clause reports the role in
// effect either way. The single statement makes concurrent first syncs of the
// same subject idempotent.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) (authz.Role, error) {
	query := `
		INSERT INTO users (cognito_sub, email, display_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cognito_sub) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = EXCLUDED.display_name,
		    updated_at = EXCLUDED.updated_at
		RETURNING role
	`

	var roleInEffect authz.Role
	err := r.db.QueryRowContext(ctx, query,
		user.CognitoSub,
		user.Email,
		user.DisplayName,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&roleInEffect)

	if err != nil {
		return "", fmt.Errorf("failed to upsert user: %w", err)
	}

	r.logger.Debug("user synced",
		zap.String("cognito_sub", user.CognitoSub),
		zap.String("role_in_effect", string(roleInEffect)))
	return roleInEffect, nil
}

// UpdateRole sets the stored role for a subject
func (r *UserRepository) UpdateRole(ctx context.Context, cognitoSub string, role authz.Role) error {
	query := `
		UPDATE users
		SET role = $2,
		    updated_at = CURRENT_TIMESTAMP
		WHERE cognito_sub = $1
	`

	result, err := r.db.ExecContext(ctx, query, cognitoSub, role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("user role updated",
		zap.String("cognito_sub", cognitoSub),
		zap.String("role", string(role)))
	return nil
}

// Delete removes a user record
func (r *UserRepository) Delete(ctx context.Context, cognitoSub string) error {
	query := `DELETE FROM users WHERE cognito_sub = $1`

	result, err := r.db.ExecContext(ctx, query, cognitoSub)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("user deleted", zap.String("cognito_sub", cognitoSub))
	return nil
}

// List returns users visible under the given scope
func (r *UserRepository) List(ctx context.Context, scope authz.ViewScope, selfSub string) ([]*models.User, error) {
	query := `
		SELECT cognito_sub, email, display_name, role, created_at, updated_at
		FROM users
		ORDER BY display_name
	`
	var args []interface{}

	switch scope {
	case authz.ScopeCandidates:
		query = `
			SELECT cognito_sub, email, display_name, role, created_at, updated_at
			FROM users
			WHERE role = $1
			ORDER BY display_name
		`
		args = []interface{}{authz.RoleCandidate}
	case authz.ScopeSelf:
		query = `
			SELECT cognito_sub, email, display_name, role, created_at, updated_at
			FROM users
			WHERE cognito_sub = $1
			ORDER BY display_name
		`
		args = []interface{}{selfSub}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.CognitoSub,
			&user.Email,
			&user.DisplayName,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}
