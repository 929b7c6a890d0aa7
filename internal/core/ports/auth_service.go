package ports

import (
	"context"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

// RegisterInput carries the data for a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService defines the credential, OTP and session use-cases. Every
// operation acting on behalf of a caller takes the principal explicitly.
type AuthService interface {
	// Register creates an unverified account and queues the
	// verification mail.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login checks credentials and, when the account is verified,
	// issues an OTP over mail. No session is created yet.
	Login(ctx context.Context, email, password string) error

	// VerifyOTP consumes an outstanding code and issues a bearer token.
	VerifyOTP(ctx context.Context, code string) (string, *domain.User, error)

	// Logout revokes the presented bearer token.
	Logout(ctx context.Context, token string) error

	// CurrentUser returns the acting user together with its actor
	// profile when one exists.
	CurrentUser(ctx context.Context, acting *domain.User) (*domain.User, *domain.Actor, error)

	// ListUsers returns all role=user accounts. Admin only.
	ListUsers(ctx context.Context, acting *domain.User) ([]domain.User, error)

	// SendVerification re-sends the signed verification link.
	SendVerification(ctx context.Context, email string) error

	// VerifyEmailLink validates a signed link and marks the email
	// verified. Idempotent.
	VerifyEmailLink(ctx context.Context, userID, hash string, expires int64, signature string) error

	// ForgotPassword queues a reset link for the account.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword validates the reset token and stores a new hash.
	ResetPassword(ctx context.Context, token, email, password string) error
}
