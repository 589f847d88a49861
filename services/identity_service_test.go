package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/cognito"
	"github.com/talentboard/backend/models"
	"go.uber.org/zap"
)

func testClaims(sub, email string, groups []string) *cognito.Claims {
	return &cognito.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
		Email:            email,
		GivenName:        "Test",
		Groups:           groups,
	}
}

func TestIdentityResolve_FirstSightPersistsDerivedRole(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "", zap.NewNop())

	// New subject: the store echoes back the derived role
	mockUsers.On("Upsert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.CognitoSub == "sub-1" && u.Role == authz.RoleEmployee
	})).Return(authz.RoleEmployee, nil)

	id, err := svc.Resolve(context.Background(), testClaims("sub-1", "emp@example.com", []string{"Employee"}))

	require.NoError(t, err)
	assert.Equal(t, "sub-1", id.SubjectID)
	assert.Equal(t, authz.RoleEmployee, id.Role)
	assert.Equal(t, "emp@example.com", id.Email)
	mockUsers.AssertExpectations(t)
}

func TestIdentityResolve_NoGroupsDefaultsToCandidate(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "", zap.NewNop())

	mockUsers.On("Upsert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == authz.RoleCandidate
	})).Return(authz.RoleCandidate, nil)

	id, err := svc.Resolve(context.Background(), testClaims("sub-2", "new@example.com", nil))

	require.NoError(t, err)
	assert.Equal(t, authz.RoleCandidate, id.Role)
}

func TestIdentityResolve_PersistedRoleWins(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "", zap.NewNop())

	// Token says Employee, store says Admin: the store is authoritative
	mockUsers.On("Upsert", mock.Anything, mock.Anything).Return(authz.RoleAdmin, nil)

	id, err := svc.Resolve(context.Background(), testClaims("sub-3", "promoted@example.com", []string{"Employee"}))

	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdmin, id.Role)
}

func TestIdentityResolve_OverrideAdminEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "root@example.com", zap.NewNop())

	// The override applies before the sync, so the derived role is already Admin
	mockUsers.On("Upsert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == authz.RoleAdmin
	})).Return(authz.RoleCandidate, nil) // store tries to demote

	id, err := svc.Resolve(context.Background(), testClaims("sub-4", "root@example.com", nil))

	require.NoError(t, err)
	// And again after, so not even a stored demotion can lock the operator out
	assert.Equal(t, authz.RoleAdmin, id.Role)
}

func TestIdentityResolve_OverrideEmailIsCaseInsensitive(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "Root@Example.com", zap.NewNop())

	mockUsers.On("Upsert", mock.Anything, mock.Anything).Return(authz.RoleCandidate, nil)

	id, err := svc.Resolve(context.Background(), testClaims("sub-5", "root@example.com", nil))

	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdmin, id.Role)
}

func TestIdentityResolve_EmptyEmailNeverMatchesOverride(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "", zap.NewNop())

	mockUsers.On("Upsert", mock.Anything, mock.Anything).Return(authz.RoleCandidate, nil)

	id, err := svc.Resolve(context.Background(), testClaims("sub-6", "", nil))

	require.NoError(t, err)
	assert.Equal(t, authz.RoleCandidate, id.Role)
}

func TestIdentityResolve_SyncFailure(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "", zap.NewNop())

	mockUsers.On("Upsert", mock.Anything, mock.Anything).
		Return(authz.Role(""), errors.New("connection refused"))

	_, err := svc.Resolve(context.Background(), testClaims("sub-7", "x@example.com", nil))

	require.Error(t, err)
	assert.True(t, IsSyncFailedError(err))
}

func TestIdentityResolve_DisplayNameFallback(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewIdentityService(mockUsers, "", zap.NewNop())

	mockUsers.On("Upsert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.DisplayName == models.DefaultDisplayName
	})).Return(authz.RoleCandidate, nil)

	claims := testClaims("sub-8", "x@example.com", nil)
	claims.GivenName = ""
	claims.Name = ""

	id, err := svc.Resolve(context.Background(), claims)

	require.NoError(t, err)
	assert.Equal(t, models.DefaultDisplayName, id.DisplayName)
	mockUsers.AssertExpectations(t)
}
