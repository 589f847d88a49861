package authz

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when an authenticated identity fails a policy
// check. It is terminal for the request; retrying without a role change
// cannot succeed.
var ErrForbidden = errors.New("forbidden")

// ViewScope bounds which users' data a caller may list
type ViewScope int

const (
	// ScopeSelf limits listings to the caller's own resources
	ScopeSelf ViewScope = iota
	// ScopeCandidates limits listings to Candidate-owned resources
	ScopeCandidates
	// ScopeAll imposes no listing restriction
	ScopeAll
)

// RequireRole checks that the identity's role meets the minimum tier.
// Admin satisfies everything, staff satisfies staff-or-below, Candidate
// satisfies only Candidate-tier checks.
func RequireRole(id Identity, min Tier) error {
	if id.Role.Tier() >= min {
		return nil
	}
	return fmt.Errorf("%w: role %s below required tier", ErrForbidden, id.Role)
}

// RequireSelfOrRole passes when the identity owns the resource or meets the
// minimum tier. Ownership always wins: a Candidate may act on their own
// resources even where the tier check alone would fail.
func RequireSelfOrRole(id Identity, resourceOwnerID string, min Tier) error {
	if resourceOwnerID != "" && id.SubjectID == resourceOwnerID {
		return nil
	}
	return RequireRole(id, min)
}

// StaffViewScope returns the listing scope for the identity: Admin sees
// everything, staff sees only Candidate-owned data, everyone else sees only
// their own.
func StaffViewScope(id Identity) ViewScope {
	switch {
	case id.Role.IsAdmin():
		return ScopeAll
	case id.Role.IsStaff():
		return ScopeCandidates
	default:
		return ScopeSelf
	}
}

// ForbidSelfTarget rejects an operation whose target is the caller's own
// identity, regardless of role. Used for destructive operations such as
// deleting or demoting a user, where self-targeting must never pass.
func ForbidSelfTarget(id Identity, targetID string) error {
	if id.SubjectID == targetID {
		return fmt.Errorf("%w: operation may not target own identity", ErrForbidden)
	}
	return nil
}

// CanViewTasks checks whether the identity may view the task list of the
// given owner. Owners and admins always may; staff may view Candidate-owned
// tasks only.
func CanViewTasks(id Identity, ownerID string, ownerRole Role) error {
	if err := RequireSelfOrRole(id, ownerID, TierAdmin); err == nil {
		return nil
	}
	if id.Role.IsStaff() && ownerRole == RoleCandidate {
		return nil
	}
	return fmt.Errorf("%w: no access to tasks of %s", ErrForbidden, ownerID)
}
