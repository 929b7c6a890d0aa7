package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
)

// ActorService implements the actor profile use-cases on top of the
// repository, the document store and the ownership gate.
type ActorService struct {
	actors ports.ActorRepository
	users  ports.UserRepository
	files  ports.FileStore
	log    zerolog.Logger
}

func NewActorService(actors ports.ActorRepository, users ports.UserRepository, files ports.FileStore, log zerolog.Logger) *ActorService {
	return &ActorService{actors: actors, users: users, files: files, log: log}
}

// Create registers the profile for in.UserID (the acting user when
// empty). Documents are stored before the record; a validation failure
// after storage leaves unreferenced files behind, which is accepted.
func (s *ActorService) Create(ctx context.Context, acting *domain.User, in ports.CreateActorInput) (*domain.Actor, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}

	ownerID := in.UserID
	if ownerID == "" {
		ownerID = acting.ID
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: user_id does not exist", domain.ErrValidation)
	}

	if _, err := s.actors.FindByUserID(ctx, ownerID); err == nil {
		return nil, domain.ErrActorExists
	} else if !errors.Is(err, domain.ErrActorNotFound) {
		return nil, err
	}

	if err := validateActorFields(in.NPI, in.NRIB, in.Birthdate, in.Birthplace, in.Diploma, in.Bank, in.Phone); err != nil {
		return nil, err
	}

	idCardPath, err := s.files.Store(ctx, ports.BucketIDCards, in.IDCard)
	if err != nil {
		return nil, fmt.Errorf("store id card: %w", err)
	}
	ribPath, err := s.files.Store(ctx, ports.BucketRIBs, in.RIB)
	if err != nil {
		return nil, fmt.Errorf("store rib: %w", err)
	}

	now := time.Now().UTC()
	actor, err := s.actors.Create(ctx, &domain.Actor{
		UserID:     ownerID,
		NPI:        in.NPI,
		NRIB:       in.NRIB,
		IDCardPath: idCardPath,
		RIBPath:    ribPath,
		Birthdate:  in.Birthdate,
		Birthplace: in.Birthplace,
		Diploma:    in.Diploma,
		Bank:       in.Bank,
		Phone:      in.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	actor.User = owner
	s.log.Info().Str("actor_id", actor.ID).Str("user_id", ownerID).Msg("actor created")
	return actor, nil
}

func (s *ActorService) Get(ctx context.Context, acting *domain.User, id string) (*domain.Actor, error) {
	actor, err := s.actors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManage(acting, actor) {
		return nil, domain.ErrForbidden
	}
	s.attachUser(ctx, actor)
	return actor, nil
}

func (s *ActorService) Update(ctx context.Context, acting *domain.User, id string, in ports.UpdateActorInput) (*domain.Actor, error) {
	actor, err := s.actors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManage(acting, actor) {
		return nil, domain.ErrForbidden
	}

	if err := validateActorFields(in.NPI, in.NRIB, in.Birthdate, in.Birthplace, in.Diploma, in.Bank, in.Phone); err != nil {
		return nil, err
	}

	// A new document is stored before the old one is removed so the
	// record never ends up pointing at a missing file. Old-file cleanup
	// is best-effort.
	if in.IDCard != nil {
		path, err := s.files.Store(ctx, ports.BucketIDCards, *in.IDCard)
		if err != nil {
			return nil, fmt.Errorf("store id card: %w", err)
		}
		s.removeFile(ctx, actor.IDCardPath)
		actor.IDCardPath = path
	}
	if in.RIB != nil {
		path, err := s.files.Store(ctx, ports.BucketRIBs, *in.RIB)
		if err != nil {
			return nil, fmt.Errorf("store rib: %w", err)
		}
		s.removeFile(ctx, actor.RIBPath)
		actor.RIBPath = path
	}

	actor.NPI = in.NPI
	actor.NRIB = in.NRIB
	actor.Birthdate = in.Birthdate
	actor.Birthplace = in.Birthplace
	actor.Diploma = in.Diploma
	actor.Bank = in.Bank
	actor.Phone = in.Phone
	actor.UpdatedAt = time.Now().UTC()

	updated, err := s.actors.Update(ctx, actor)
	if err != nil {
		return nil, err
	}

	s.attachUser(ctx, updated)
	s.log.Info().Str("actor_id", updated.ID).Msg("actor updated")
	return updated, nil
}

func (s *ActorService) Delete(ctx context.Context, acting *domain.User, id string) error {
	actor, err := s.actors.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanManage(acting, actor) {
		return domain.ErrForbidden
	}

	if err := s.actors.Delete(ctx, id); err != nil {
		return err
	}

	s.removeFile(ctx, actor.IDCardPath)
	s.removeFile(ctx, actor.RIBPath)

	s.log.Info().Str("actor_id", id).Msg("actor deleted")
	return nil
}

func (s *ActorService) List(ctx context.Context, acting *domain.User) ([]domain.Actor, error) {
	if acting == nil || acting.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	actors, err := s.actors.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range actors {
		s.attachUser(ctx, &actors[i])
	}
	return actors, nil
}

func (s *ActorService) attachUser(ctx context.Context, actor *domain.Actor) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("actor_id", actor.ID).Msg("failed to load actor owner")
		return
	}
	actor.User = user
}

func (s *ActorService) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.files.Delete(ctx, path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to remove stored document")
	}
}

// validateActorFields re-checks the domain invariants that also back the
// request schema. Uniqueness of npi and phone is left to the storage
// layer's unique indexes.
func validateActorFields(npi, nrib string, birthdate time.Time, birthplace string, diploma domain.Diploma, bank domain.Bank, phone string) error {
	switch {
	case !isDigits(npi) || len(npi) != 11:
		return fmt.Errorf("%w: npi must be exactly 11 digits", domain.ErrValidation)
	case !isAlphanumeric(nrib) || len(nrib) != 32:
		return fmt.Errorf("%w: n_rib must be exactly 32 alphanumeric characters", domain.ErrValidation)
	case birthplace == "":
		return fmt.Errorf("%w: birthplace is required", domain.ErrValidation)
	case !diploma.Valid():
		return fmt.Errorf("%w: unknown diploma level", domain.ErrValidation)
	case !bank.Valid():
		return fmt.Errorf("%w: unknown bank", domain.ErrValidation)
	case phone != "" && (!isDigits(phone) || len(phone) != 10):
		return fmt.Errorf("%w: phone must be exactly 10 digits", domain.ErrValidation)
	case !birthdate.Before(time.Now()):
		return domain.ErrBirthdate
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
