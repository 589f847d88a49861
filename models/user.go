package models

import (
	"time"

	"github.com/talentboard/backend/authz"
)

// DefaultDisplayName is used when the identity token carries no usable name
const DefaultDisplayName = "User"

// User represents a persisted user record, keyed by the Cognito subject.
// The stored role is the source of truth for authorization once the subject
// has synced at least once.
type User struct {
	CognitoSub  string     `json:"cognito_sub" db:"cognito_sub"`
	Email       string     `json:"email" db:"email"`
	DisplayName string     `json:"display_name" db:"display_name"`
	Role        authz.Role `json:"role" db:"role"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance with the given role
func NewUser(cognitoSub, email, displayName string, role authz.Role) *User {
	if displayName == "" {
		displayName = DefaultDisplayName
	}
	now := time.Now()
	return &User{
		CognitoSub:  cognitoSub,
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
