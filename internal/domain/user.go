package domain

import "time"

// UserRole determines what an account may do on the platform.
type UserRole string

const (
	RoleAttendee  UserRole = "ATTENDEE"
	RoleOrganizer UserRole = "ORGANIZER"
	RoleAdmin     UserRole = "ADMIN"
)

// User is the domain model for platform accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole reports whether the given role is a known user role.
func IsValidRole(role UserRole) bool {
	switch role {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}
