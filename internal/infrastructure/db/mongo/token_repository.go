package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/infrastructure/crypto"
)

const tokensCollection = "access_tokens"

// TokenRepository implements ports.TokenIssuer. Tokens are opaque random
// strings; only SHA-256 fingerprints are stored, so lookup hashes the
// presented plaintext and matches on the fingerprint.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokensCollection)}
}

type mongoToken struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Fingerprint string             `bson:"fingerprint"`
	Name        string             `bson:"name"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *TokenRepository) Issue(ctx context.Context, userID, name string) (string, error) {
	plaintext, err := crypto.NewBearerToken()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.InsertOne(ctx, mongoToken{
		UserID:      userID,
		Fingerprint: crypto.Fingerprint(plaintext),
		Name:        name,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("insert token: %w", err)
	}
	return plaintext, nil
}

func (r *TokenRepository) Lookup(ctx context.Context, plaintext string) (*domain.AccessToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoToken
	err := r.coll.FindOne(ctx, bson.M{"fingerprint": crypto.Fingerprint(plaintext)}).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &domain.AccessToken{
		ID:          mt.ID.Hex(),
		UserID:      mt.UserID,
		Fingerprint: mt.Fingerprint,
		Name:        mt.Name,
		CreatedAt:   mt.CreatedAt,
	}, nil
}

// Revoke deletes the token record. Deleting an already-revoked token is
// a no-op, which keeps logout idempotent.
func (r *TokenRepository) Revoke(ctx context.Context, plaintext string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteOne(ctx, bson.M{"fingerprint": crypto.Fingerprint(plaintext)})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *TokenRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "fingerprint", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("fingerprint_unique"),
	})
	return err
}
