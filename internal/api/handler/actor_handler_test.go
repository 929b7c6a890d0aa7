package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/exam-manager/exam-system/internal/api/middleware"
	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

type stubActorService struct {
	createFn func(ctx context.Context, acting *domain.User, in ports.CreateActorInput) (*domain.Actor, error)
	getFn    func(ctx context.Context, acting *domain.User, id string) (*domain.Actor, error)
	updateFn func(ctx context.Context, acting *domain.User, id string, in ports.UpdateActorInput) (*domain.Actor, error)
	deleteFn func(ctx context.Context, acting *domain.User, id string) error
	listFn   func(ctx context.Context, acting *domain.User) ([]domain.Actor, error)
}

func (s *stubActorService) Create(ctx context.Context, acting *domain.User, in ports.CreateActorInput) (*domain.Actor, error) {
	return s.createFn(ctx, acting, in)
}

func (s *stubActorService) Get(ctx context.Context, acting *domain.User, id string) (*domain.Actor, error) {
	return s.getFn(ctx, acting, id)
}

func (s *stubActorService) Update(ctx context.Context, acting *domain.User, id string, in ports.UpdateActorInput) (*domain.Actor, error) {
	return s.updateFn(ctx, acting, id, in)
}

func (s *stubActorService) Delete(ctx context.Context, acting *domain.User, id string) error {
	return s.deleteFn(ctx, acting, id)
}

func (s *stubActorService) List(ctx context.Context, acting *domain.User) ([]domain.Actor, error) {
	return s.listFn(ctx, acting)
}

var validActorFields = map[string]string{
	"npi":        "12345678901",
	"n_rib":      "AB123456789012345678901234567890",
	"birthdate":  "1990-05-04",
	"birthplace": "Cotonou",
	"diploma":    "MASTER",
	"bank":       "UBA",
	"phone":      "0102030405",
}

func multipartContext(t *testing.T, fields map[string]string, files map[string][]byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/actors", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUser, &domain.User{ID: "u1", Role: domain.RoleUser})
	return c, rec
}

func TestActorHandler_Create_Success(t *testing.T) {
	stub := &stubActorService{
		createFn: func(_ context.Context, acting *domain.User, in ports.CreateActorInput) (*domain.Actor, error) {
			if acting.ID != "u1" {
				t.Fatalf("unexpected acting user %q", acting.ID)
			}
			if in.NPI != "12345678901" || in.Diploma != domain.DiplomaMaster || in.Bank != domain.BankUBA {
				t.Fatalf("unexpected input: %+v", in)
			}
			if len(in.IDCard.Content) == 0 || len(in.RIB.Content) == 0 {
				t.Fatalf("expected both documents to be read")
			}
			return &domain.Actor{ID: "a1", UserID: acting.ID, NPI: in.NPI}, nil
		},
	}
	h := NewActorHandler(stub)

	c, rec := multipartContext(t, validActorFields, map[string][]byte{
		"id_card": pngBytes,
		"rib":     pngBytes,
	})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestActorHandler_Create_MissingFile(t *testing.T) {
	stub := &stubActorService{
		createFn: func(_ context.Context, _ *domain.User, _ ports.CreateActorInput) (*domain.Actor, error) {
			t.Fatalf("service should not be called without files")
			return nil, nil
		},
	}
	h := NewActorHandler(stub)

	c, _ := multipartContext(t, validActorFields, map[string][]byte{
		"id_card": pngBytes,
	})

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestActorHandler_Create_UnsupportedFileType(t *testing.T) {
	stub := &stubActorService{
		createFn: func(_ context.Context, _ *domain.User, _ ports.CreateActorInput) (*domain.Actor, error) {
			t.Fatalf("service should not be called with a rejected file")
			return nil, nil
		},
	}
	h := NewActorHandler(stub)

	c, _ := multipartContext(t, validActorFields, map[string][]byte{
		"id_card": []byte("plain text, not a document"),
		"rib":     pngBytes,
	})

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestActorHandler_Create_InvalidNPI(t *testing.T) {
	stub := &stubActorService{
		createFn: func(_ context.Context, _ *domain.User, _ ports.CreateActorInput) (*domain.Actor, error) {
			t.Fatalf("service should not be called on invalid input")
			return nil, nil
		},
	}
	h := NewActorHandler(stub)

	fields := make(map[string]string, len(validActorFields))
	for k, v := range validActorFields {
		fields[k] = v
	}
	fields["npi"] = "123"

	c, _ := multipartContext(t, fields, map[string][]byte{
		"id_card": pngBytes,
		"rib":     pngBytes,
	})

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestActorHandler_Get_Forbidden(t *testing.T) {
	stub := &stubActorService{
		getFn: func(_ context.Context, _ *domain.User, _ string) (*domain.Actor, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewActorHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/actors/a1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("a1")
	c.Set(middleware.ContextUser, &domain.User{ID: "u2", Role: domain.RoleUser})

	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestActorHandler_Delete_Success(t *testing.T) {
	deleted := ""
	stub := &stubActorService{
		deleteFn: func(_ context.Context, _ *domain.User, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewActorHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/actors/a1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("a1")
	c.Set(middleware.ContextUser, &domain.User{ID: "u1", Role: domain.RoleUser})

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "a1" {
		t.Fatalf("expected a1 deleted, got %q", deleted)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
