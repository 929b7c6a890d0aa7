package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

const actorsCollection = "actors"

// Index names, matched against duplicate-key errors to pick the right
// domain sentinel.
const (
	idxActorUser  = "user_id_unique"
	idxActorNPI   = "npi_unique"
	idxActorPhone = "phone_unique"
)

type ActorRepository struct {
	coll *mongo.Collection
}

func NewActorRepository(db *mongo.Database) *ActorRepository {
	return &ActorRepository{coll: db.Collection(actorsCollection)}
}

type mongoActor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	NPI        string             `bson:"npi"`
	NRIB       string             `bson:"n_rib"`
	IDCardPath string             `bson:"id_card"`
	RIBPath    string             `bson:"rib"`
	Birthdate  time.Time          `bson:"birthdate"`
	Birthplace string             `bson:"birthplace"`
	Diploma    string             `bson:"diploma"`
	Bank       string             `bson:"bank"`
	Phone      string             `bson:"phone,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func toMongoActor(a *domain.Actor) mongoActor {
	return mongoActor{
		UserID:     a.UserID,
		NPI:        a.NPI,
		NRIB:       a.NRIB,
		IDCardPath: a.IDCardPath,
		RIBPath:    a.RIBPath,
		Birthdate:  a.Birthdate,
		Birthplace: a.Birthplace,
		Diploma:    string(a.Diploma),
		Bank:       string(a.Bank),
		Phone:      a.Phone,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (ma *mongoActor) toDomain() *domain.Actor {
	return &domain.Actor{
		ID:         ma.ID.Hex(),
		UserID:     ma.UserID,
		NPI:        ma.NPI,
		NRIB:       ma.NRIB,
		IDCardPath: ma.IDCardPath,
		RIBPath:    ma.RIBPath,
		Birthdate:  ma.Birthdate,
		Birthplace: ma.Birthplace,
		Diploma:    domain.Diploma(ma.Diploma),
		Bank:       domain.Bank(ma.Bank),
		Phone:      ma.Phone,
		CreatedAt:  ma.CreatedAt,
		UpdatedAt:  ma.UpdatedAt,
	}
}

func (r *ActorRepository) Create(ctx context.Context, actor *domain.Actor) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoActor(actor))
	if err != nil {
		return nil, mapActorWriteError(err)
	}

	created := *actor
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id string) (*domain.Actor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrActorNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ActorRepository) FindByUserID(ctx context.Context, userID string) (*domain.Actor, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *ActorRepository) Update(ctx context.Context, actor *domain.Actor) (*domain.Actor, error) {
	oid, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, domain.ErrActorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoActor(actor)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, mapActorWriteError(err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrActorNotFound
	}
	return actor, nil
}

func (r *ActorRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrActorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete actor: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}

func (r *ActorRepository) List(ctx context.Context) ([]domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	defer cur.Close(ctx)

	var actors []domain.Actor
	for cur.Next(ctx) {
		var ma mongoActor
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode actor: %w", err)
		}
		actors = append(actors, *ma.toDomain())
	}
	return actors, cur.Err()
}

func (r *ActorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoActor
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("find actor: %w", err)
	}
	return ma.toDomain(), nil
}

// mapActorWriteError picks the domain sentinel matching the unique index
// reported in a duplicate-key error.
func mapActorWriteError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("write actor: %w", err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, idxActorNPI):
		return domain.ErrNPITaken
	case strings.Contains(msg, idxActorPhone):
		return domain.ErrPhoneTaken
	case strings.Contains(msg, idxActorUser):
		return domain.ErrActorExists
	}
	return domain.ErrActorExists
}

func (r *ActorRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxActorUser),
		},
		{
			Keys:    bson.D{{Key: "npi", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxActorNPI),
		},
		{
			// Partial so absent phones do not collide with each other.
			Keys: bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxActorPhone).
				SetPartialFilterExpression(bson.M{"phone": bson.M{"$type": "string"}}),
		},
	})
	return err
}
