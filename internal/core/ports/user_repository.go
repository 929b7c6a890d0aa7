package ports

import (
	"context"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// MarkEmailVerified sets the verification timestamp. It is a no-op
	// when the user is already verified.
	MarkEmailVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// ListByRole returns all accounts with the given role.
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}
