package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// UserRepository defines the persistence contract for user records.
// The authentication gate only reads and upserts; destructive operations are
// reserved for explicitly authorized admin flows.
type UserRepository interface {
	// FindBySubject returns the user record for the given Cognito subject,
	// or ErrNotFound
	FindBySubject(ctx context.Context, cognitoSub string) (*models.User, error)

	// Upsert creates the record on first sight (with the given role) or
	// refreshes the mutable display fields (email, display name) on
	// subsequent sightings, never touching the stored role. It returns the
	// role in effect after the sync: the persisted role for known subjects,
	// the given role for new ones.
	Upsert(ctx context.Context, user *models.User) (authz.Role, error)

	// UpdateRole sets the stored role for a subject
	UpdateRole(ctx context.Context, cognitoSub string, role authz.Role) error

	// Delete removes a user record
	Delete(ctx context.Context, cognitoSub string) error

	// List returns users visible under the given scope. selfSub identifies
	// the caller for ScopeSelf listings.
	List(ctx context.Context, scope authz.ViewScope, selfSub string) ([]*models.User, error)
}

// TaskRepository defines the persistence contract for tasks
type TaskRepository interface {
	// Create persists a new task
	Create(ctx context.Context, task *models.Task) error

	// GetByID returns a task by id, or ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)

	// ListByOwner returns the owner's tasks, newest first
	ListByOwner(ctx context.Context, ownerSub string) ([]*models.Task, error)

	// Delete removes a task by id
	Delete(ctx context.Context, id uuid.UUID) error
}
