package models

// Role is the fixed set of account kinds. A user's role never changes after creation.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
	RoleCandidate  Role = "candidate"
)

// Status is the approval state of an account.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var roles = []Role{RoleSuperadmin, RoleAdmin, RoleEmployee, RoleCandidate}

// Roles returns every known role.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

// DefaultStatus is the approval status an account of this role starts in.
// Superadmins and candidates need nobody's approval; companies and their
// employees wait for it.
func (r Role) DefaultStatus() Status {
	switch r {
	case RoleSuperadmin, RoleCandidate:
		return StatusApproved
	default:
		return StatusPending
	}
}

// DefaultEmailVerified reports whether accounts of this role start verified.
func (r Role) DefaultEmailVerified() bool {
	return r == RoleSuperadmin
}

func (r Role) String() string { return string(r) }

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
