package authz

// Role represents a user's role within the platform
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleEmployee  Role = "Employee"
	RoleEmployer  Role = "Employer"
	RoleCandidate Role = "Candidate"
)

// Tier is the privilege level a role grants. Employee and Employer are
// equivalent everywhere authorization is concerned: both sit on the staff
// tier.
type Tier int

const (
	TierCandidate Tier = iota
	TierStaff
	TierAdmin
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleEmployer, RoleCandidate:
		return true
	default:
		return false
	}
}

// Tier returns the privilege tier of the role. Unknown roles map to the
// lowest tier.
func (r Role) Tier() Tier {
	switch r {
	case RoleAdmin:
		return TierAdmin
	case RoleEmployee, RoleEmployer:
		return TierStaff
	default:
		return TierCandidate
	}
}

// IsAdmin returns true if the role is Admin
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsStaff returns true if the role is on the staff tier or above
func (r Role) IsStaff() bool {
	return r.Tier() >= TierStaff
}

// ParseRole safely parses a string into a Role
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// AllRoles returns all predefined roles in descending privilege order
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleEmployee, RoleEmployer, RoleCandidate}
}

// RoleFromGroups derives the canonical role from a token's group membership.
//
// The mapping is total: Admin takes precedence, then the staff-tier groups,
// and any other (or absent) group set falls through to Candidate.
func RoleFromGroups(groups []string) Role {
	var staff Role
	for _, g := range groups {
		switch g {
		case string(RoleAdmin):
			return RoleAdmin
		case string(RoleEmployee):
			if staff == "" {
				staff = RoleEmployee
			}
		case string(RoleEmployer):
			if staff == "" {
				staff = RoleEmployer
			}
		}
	}
	if staff != "" {
		return staff
	}
	return RoleCandidate
}

// Identity is the verified, request-scoped identity produced by the
// authentication gate. It is constructed fresh per request and discarded at
// request end.
type Identity struct {
	SubjectID   string
	Email       string
	DisplayName string
	Groups      []string
	Role        Role
}
