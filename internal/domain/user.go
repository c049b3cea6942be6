package domain

import "time"

// Role enumerates the mutually exclusive access levels for accounts.
type Role string

const (
	RoleComplainer Role = "COMPLAINER"
	RoleApprover   Role = "APPROVER"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleComplainer, RoleApprover, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for complaint-system accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	IBAN         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns the account holder name used for gateway recipients.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
