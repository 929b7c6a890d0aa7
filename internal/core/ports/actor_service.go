package ports

import (
	"context"
	"time"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

// Logical buckets for stored documents.
const (
	BucketIDCards = "id_cards"
	BucketRIBs    = "ribs"
)

// CreateActorInput carries the fields and documents for a new profile.
// UserID is optional and defaults to the acting user.
type CreateActorInput struct {
	UserID     string
	NPI        string
	NRIB       string
	Birthdate  time.Time
	Birthplace string
	Diploma    domain.Diploma
	Bank       domain.Bank
	Phone      string
	IDCard     Document
	RIB        Document
}

// UpdateActorInput mirrors CreateActorInput except that documents are
// optional; a nil document keeps the stored file.
type UpdateActorInput struct {
	NPI        string
	NRIB       string
	Birthdate  time.Time
	Birthplace string
	Diploma    domain.Diploma
	Bank       domain.Bank
	Phone      string
	IDCard     *Document
	RIB        *Document
}

// ActorService defines the actor profile use-cases. All operations take
// the acting principal explicitly; show/update/delete are gated by
// domain.CanManage and List is admin-only.
type ActorService interface {
	Create(ctx context.Context, acting *domain.User, in CreateActorInput) (*domain.Actor, error)
	Get(ctx context.Context, acting *domain.User, id string) (*domain.Actor, error)
	Update(ctx context.Context, acting *domain.User, id string, in UpdateActorInput) (*domain.Actor, error)
	Delete(ctx context.Context, acting *domain.User, id string) error
	List(ctx context.Context, acting *domain.User) ([]domain.Actor, error)
}
