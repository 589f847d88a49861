package services

import (
	"context"
	"strings"

	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/cognito"
	"github.com/talentboard/backend/models"
	"github.com/talentboard/backend/repositories"
	"go.uber.org/zap"
)

// IdentityService turns verified token claims into the request identity and
// keeps the user store reconciled with what the issuer reports.
//
// Reconciliation policy: on first sight of a subject the token-derived role is
// persisted; from then on the persisted role is authoritative, and tokens only
// refresh the display fields. A role change made inside the store therefore
// survives stale token groups. The one exception is the configured override
// admin email, which always resolves to Admin.
type IdentityService struct {
	users              repositories.UserRepository
	overrideAdminEmail string
	logger             *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(users repositories.UserRepository, overrideAdminEmail string, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		users:              users,
		overrideAdminEmail: overrideAdminEmail,
		logger:             logger,
	}
}

// Resolve derives the canonical role from the claims, syncs the user record,
// and returns the resolved identity. The store being unreachable yields
// ErrSyncFailed; verification failures never reach this point.
func (s *IdentityService) Resolve(ctx context.Context, claims *cognito.Claims) (*authz.Identity, error) {
	derived := authz.RoleFromGroups(claims.Groups)

	if s.isOverrideAdmin(claims.Email) && derived != authz.RoleAdmin {
		// Explicit, auditable rule: the operator account can never be locked
		// out, whatever the token groups say.
		s.logger.Info("override admin rule applied",
			zap.String("sub", claims.SubjectID()),
			zap.String("derived_role", string(derived)))
		derived = authz.RoleAdmin
	}

	user := models.NewUser(claims.SubjectID(), claims.Email, claims.DisplayName(), derived)
	roleInEffect, err := s.users.Upsert(ctx, user)
	if err != nil {
		return nil, NewDomainError(ErrorTypeSyncFailed, "user sync failed", err)
	}

	if s.isOverrideAdmin(claims.Email) {
		roleInEffect = authz.RoleAdmin
	}

	return &authz.Identity{
		SubjectID:   claims.SubjectID(),
		Email:       claims.Email,
		DisplayName: user.DisplayName,
		Groups:      claims.Groups,
		Role:        roleInEffect,
	}, nil
}

func (s *IdentityService) isOverrideAdmin(email string) bool {
	return s.overrideAdminEmail != "" && email != "" &&
		strings.EqualFold(email, s.overrideAdminEmail)
}
