package models

import "time"

// Role describes what a user account is allowed to do.
type Role string

const (
	RoleFan     Role = "fan"
	RoleCreator Role = "creator"
)

// User represents a user account in the system.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"passwordHash,omitempty"` // cleared by handlers before responding
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	// One-shot token consumed by the email verification endpoint.
	VerificationToken string    `json:"verificationToken,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
