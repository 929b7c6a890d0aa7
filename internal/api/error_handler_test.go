package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrValidation, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: npi must be exactly 11 digits", domain.ErrValidation), http.StatusUnprocessableEntity},
		{domain.ErrEmailTaken, http.StatusUnprocessableEntity},
		{domain.ErrNPITaken, http.StatusUnprocessableEntity},
		{domain.ErrPhoneTaken, http.StatusUnprocessableEntity},
		{domain.ErrBirthdate, http.StatusUnprocessableEntity},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrActorNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrEmailUnverified, http.StatusForbidden},
		{domain.ErrBadCredentials, http.StatusForbidden},
		{domain.ErrActorExists, http.StatusForbidden},
		{domain.ErrInvalidSignature, http.StatusForbidden},
		{domain.ErrInvalidOTP, http.StatusUnauthorized},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrAlreadyVerified, http.StatusBadRequest},
		{domain.ErrInvalidResetToken, http.StatusBadRequest},
		{domain.ErrThrottled, http.StatusTooManyRequests},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tc.err, c)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["success"] != false {
				t.Fatalf("expected success=false, got %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("password hash leaked into logs"), c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["message"] != "internal server error" {
		t.Fatalf("expected generic message, got %q", body["message"])
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(echo.NewHTTPError(http.StatusTeapot, "short and stout"), c)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}
