package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. No endpoint mutates a role
// after registration.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

var (
	ErrValidation        = errors.New("validation failed")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailUnverified   = errors.New("email not verified")
	ErrBadCredentials    = errors.New("invalid credentials")
	ErrInvalidOTP        = errors.New("invalid or expired one-time password")
	ErrAlreadyVerified   = errors.New("email already verified")
	ErrInvalidResetToken = errors.New("invalid or expired password reset token")
	ErrInvalidSignature  = errors.New("invalid or expired verification link")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrThrottled         = errors.New("too many requests")
	ErrForbidden         = errors.New("access forbidden")
)

// User models an account. The password is only ever stored as a hash.
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Verified reports whether the user completed email verification.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}
