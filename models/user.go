package models

// Role is the closed set of platform roles. Authorization inside the
// booking engine is always booking-specific; Role only scopes which
// surfaces an identity may call.
type Role string

const (
	RoleTourist Role = "TOURIST"
	RoleGuide   Role = "GUIDE"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTourist, RoleGuide, RoleAdmin:
		return true
	}
	return false
}
