package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAgent   RoleType = "AGENT"
	RoleAdmin   RoleType = "ADMIN"
)

// IsValid reports whether r is a known role
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to the agency back-office
func (r RoleType) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}
