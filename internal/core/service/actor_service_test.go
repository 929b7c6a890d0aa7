package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
)

type memActors struct {
	byID   map[string]*domain.Actor
	nextID int
	// failWith simulates a unique-index violation on write.
	failWith error
}

func newMemActors() *memActors { return &memActors{byID: map[string]*domain.Actor{}} }

func (m *memActors) Create(_ context.Context, a *domain.Actor) (*domain.Actor, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.nextID++
	a.ID = "a" + strconv.Itoa(m.nextID)
	m.byID[a.ID] = a
	return a, nil
}

func (m *memActors) FindByID(_ context.Context, id string) (*domain.Actor, error) {
	if a, ok := m.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrActorNotFound
}

func (m *memActors) FindByUserID(_ context.Context, userID string) (*domain.Actor, error) {
	for _, a := range m.byID {
		if a.UserID == userID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrActorNotFound
}

func (m *memActors) Update(_ context.Context, a *domain.Actor) (*domain.Actor, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if _, ok := m.byID[a.ID]; !ok {
		return nil, domain.ErrActorNotFound
	}
	m.byID[a.ID] = a
	return a, nil
}

func (m *memActors) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrActorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memActors) List(_ context.Context) ([]domain.Actor, error) {
	out := make([]domain.Actor, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, *a)
	}
	return out, nil
}

type memFiles struct {
	stored  map[string][]byte
	deleted []string
	nextID  int
}

func newMemFiles() *memFiles { return &memFiles{stored: map[string][]byte{}} }

func (m *memFiles) Store(_ context.Context, bucket string, doc ports.Document) (string, error) {
	m.nextID++
	path := bucket + "/f" + strconv.Itoa(m.nextID) + doc.Ext
	m.stored[path] = doc.Content
	return path, nil
}

func (m *memFiles) Delete(_ context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	delete(m.stored, path)
	return nil
}

type actorFixture struct {
	svc    *ActorService
	actors *memActors
	users  *fakeUsers
	files  *memFiles
	owner  *domain.User
}

func newActorFixture(t *testing.T) *actorFixture {
	t.Helper()
	f := &actorFixture{
		actors: newMemActors(),
		users:  newFakeUsers(),
		files:  newMemFiles(),
	}
	now := time.Now()
	owner, err := f.users.Create(context.Background(), &domain.User{
		Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser, EmailVerifiedAt: &now,
	})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	f.owner = owner
	f.svc = NewActorService(f.actors, f.users, f.files, zerolog.Nop())
	return f
}

func validCreateInput() ports.CreateActorInput {
	return ports.CreateActorInput{
		NPI:        "12345678901",
		NRIB:       "AB123456789012345678901234567890",
		Birthdate:  time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC),
		Birthplace: "Cotonou",
		Diploma:    domain.DiplomaMaster,
		Bank:       domain.BankUBA,
		Phone:      "0102030405",
		IDCard:     ports.Document{Ext: ".png", Content: []byte("id")},
		RIB:        ports.Document{Ext: ".pdf", Content: []byte("rib")},
	}
}

func TestActorCreate_Success(t *testing.T) {
	f := newActorFixture(t)

	actor, err := f.svc.Create(context.Background(), f.owner, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if actor.UserID != f.owner.ID {
		t.Fatalf("expected owner %q, got %q", f.owner.ID, actor.UserID)
	}
	if actor.IDCardPath == "" || actor.RIBPath == "" {
		t.Fatalf("expected stored document paths, got %+v", actor)
	}
	if actor.User == nil || actor.User.ID != f.owner.ID {
		t.Fatalf("expected owner attached, got %+v", actor.User)
	}
	if len(f.files.stored) != 2 {
		t.Fatalf("expected 2 stored files, got %d", len(f.files.stored))
	}
}

func TestActorCreate_OnePerUser(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.owner, validCreateInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(ctx, f.owner, validCreateInput()); !errors.Is(err, domain.ErrActorExists) {
		t.Fatalf("expected ErrActorExists, got %v", err)
	}
}

func TestActorCreate_UnknownOwner(t *testing.T) {
	f := newActorFixture(t)

	in := validCreateInput()
	in.UserID = "missing"
	if _, err := f.svc.Create(context.Background(), f.owner, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestActorCreate_FutureBirthdate(t *testing.T) {
	f := newActorFixture(t)

	in := validCreateInput()
	in.Birthdate = time.Now().Add(24 * time.Hour)
	if _, err := f.svc.Create(context.Background(), f.owner, in); !errors.Is(err, domain.ErrBirthdate) {
		t.Fatalf("expected ErrBirthdate, got %v", err)
	}
	if len(f.files.stored) != 0 {
		t.Fatalf("expected no files stored on validation failure, got %d", len(f.files.stored))
	}
}

func TestActorCreate_InvalidFields(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ports.CreateActorInput)
	}{
		{"short npi", func(in *ports.CreateActorInput) { in.NPI = "123" }},
		{"npi with letters", func(in *ports.CreateActorInput) { in.NPI = "1234567890a" }},
		{"short nrib", func(in *ports.CreateActorInput) { in.NRIB = "abc" }},
		{"missing birthplace", func(in *ports.CreateActorInput) { in.Birthplace = "" }},
		{"unknown diploma", func(in *ports.CreateActorInput) { in.Diploma = "PHD" }},
		{"unknown bank", func(in *ports.CreateActorInput) { in.Bank = "MONOPOLY" }},
		{"bad phone", func(in *ports.CreateActorInput) { in.Phone = "12" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			if _, err := f.svc.Create(ctx, f.owner, in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestActorCreate_DuplicateNPI(t *testing.T) {
	f := newActorFixture(t)
	f.actors.failWith = domain.ErrNPITaken

	if _, err := f.svc.Create(context.Background(), f.owner, validCreateInput()); !errors.Is(err, domain.ErrNPITaken) {
		t.Fatalf("expected ErrNPITaken, got %v", err)
	}
}

func TestActorCreate_DuplicatePhone(t *testing.T) {
	f := newActorFixture(t)
	f.actors.failWith = domain.ErrPhoneTaken

	if _, err := f.svc.Create(context.Background(), f.owner, validCreateInput()); !errors.Is(err, domain.ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestActorUpdate_DuplicatePhone(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	actor, err := f.svc.Create(ctx, f.owner, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.actors.failWith = domain.ErrPhoneTaken
	in := validCreateInput()
	_, err = f.svc.Update(ctx, f.owner, actor.ID, ports.UpdateActorInput{
		NPI: in.NPI, NRIB: in.NRIB, Birthdate: in.Birthdate,
		Birthplace: in.Birthplace, Diploma: in.Diploma, Bank: in.Bank,
		Phone: "0909090909",
	})
	if !errors.Is(err, domain.ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestActorGet_Gate(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	actor, err := f.svc.Create(ctx, f.owner, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Get(ctx, f.owner, actor.ID); err != nil {
		t.Fatalf("owner should read own profile: %v", err)
	}
	if _, err := f.svc.Get(ctx, &domain.User{ID: "adm", Role: domain.RoleAdmin}, actor.ID); err != nil {
		t.Fatalf("admin should read any profile: %v", err)
	}
	stranger := &domain.User{ID: "u99", Role: domain.RoleUser}
	if _, err := f.svc.Get(ctx, stranger, actor.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
}

func TestActorUpdate_ReplacesDocument(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	actor, err := f.svc.Create(ctx, f.owner, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oldPath := actor.IDCardPath

	in := validCreateInput()
	updated, err := f.svc.Update(ctx, f.owner, actor.ID, ports.UpdateActorInput{
		NPI:        in.NPI,
		NRIB:       in.NRIB,
		Birthdate:  in.Birthdate,
		Birthplace: "Porto-Novo",
		Diploma:    in.Diploma,
		Bank:       in.Bank,
		Phone:      in.Phone,
		IDCard:     &ports.Document{Ext: ".jpg", Content: []byte("new id")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Birthplace != "Porto-Novo" {
		t.Fatalf("expected updated birthplace, got %q", updated.Birthplace)
	}
	if updated.IDCardPath == oldPath {
		t.Fatalf("expected new id card path")
	}
	if updated.RIBPath != actor.RIBPath {
		t.Fatalf("rib should be untouched, got %q", updated.RIBPath)
	}

	found := false
	for _, p := range f.files.deleted {
		if p == oldPath {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected old id card %q to be deleted, got %v", oldPath, f.files.deleted)
	}
}

func TestActorUpdate_StrangerForbidden(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	actor, err := f.svc.Create(ctx, f.owner, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stranger := &domain.User{ID: "u99", Role: domain.RoleUser}
	in := validCreateInput()
	_, err = f.svc.Update(ctx, stranger, actor.ID, ports.UpdateActorInput{
		NPI: in.NPI, NRIB: in.NRIB, Birthdate: in.Birthdate,
		Birthplace: in.Birthplace, Diploma: in.Diploma, Bank: in.Bank, Phone: in.Phone,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestActorDelete_PurgesFiles(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	actor, err := f.svc.Create(ctx, f.owner, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(ctx, f.owner, actor.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.files.deleted) != 2 {
		t.Fatalf("expected both documents purged, got %v", f.files.deleted)
	}
	if _, err := f.actors.FindByID(ctx, actor.ID); !errors.Is(err, domain.ErrActorNotFound) {
		t.Fatalf("expected actor gone, got %v", err)
	}
}

func TestActorDelete_Missing(t *testing.T) {
	f := newActorFixture(t)

	err := f.svc.Delete(context.Background(), f.owner, "nope")
	if !errors.Is(err, domain.ErrActorNotFound) {
		t.Fatalf("expected ErrActorNotFound, got %v", err)
	}
}

func TestActorList_AdminOnly(t *testing.T) {
	f := newActorFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.owner, validCreateInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.List(ctx, f.owner); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for regular user, got %v", err)
	}

	actors, err := f.svc.List(ctx, &domain.User{ID: "adm", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(actors) != 1 {
		t.Fatalf("expected 1 actor, got %d", len(actors))
	}
	if actors[0].User == nil {
		t.Fatalf("expected owner attached to listed actor")
	}
}
