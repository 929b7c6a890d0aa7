package ports

import (
	"context"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

// ActorRepository defines persistence for actor profiles. Uniqueness of
// user_id, npi and phone is enforced by storage-layer unique indexes;
// implementations map duplicate-key failures to the matching domain error.
type ActorRepository interface {
	Create(ctx context.Context, actor *domain.Actor) (*domain.Actor, error)
	FindByID(ctx context.Context, id string) (*domain.Actor, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Actor, error)
	Update(ctx context.Context, actor *domain.Actor) (*domain.Actor, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Actor, error)
}
