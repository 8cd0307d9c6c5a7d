package domain

// Role is the closed set of staff roles. There is no dynamic role table:
// every authorization decision in the system is expressed against these four.
type Role string

const (
	RoleHRAdmin      Role = "hr_admin"
	RoleLineManager  Role = "line_manager"
	RoleCoreStaff    Role = "core_staff"
	RoleSupportStaff Role = "support_staff"
)

// ParseRole normalizes a stored role string. Unknown or empty values fall back
// to core_staff, matching how a missing profile is treated.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleHRAdmin, RoleLineManager, RoleCoreStaff, RoleSupportStaff:
		return Role(s)
	default:
		return RoleCoreStaff
	}
}

func (r Role) String() string { return string(r) }

// IsValid reports whether r is one of the four declared roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleHRAdmin, RoleLineManager, RoleCoreStaff, RoleSupportStaff:
		return true
	}
	return false
}
