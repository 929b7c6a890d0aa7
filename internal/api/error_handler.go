package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

// envelope is the canonical JSON shape for all API errors:
// {"success": false, "message": "<reason>"}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details.
//   - Renders the {success, message} envelope used everywhere else.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, envelope{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrNPITaken),
		errors.Is(err, domain.ErrPhoneTaken),
		errors.Is(err, domain.ErrBirthdate):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrActorNotFound):
		return http.StatusNotFound, "actor not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "you are not allowed to perform this action"
	case errors.Is(err, domain.ErrEmailUnverified):
		return http.StatusForbidden, "please verify your email first"
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusForbidden, "invalid credentials"
	case errors.Is(err, domain.ErrActorExists):
		return http.StatusForbidden, "actor profile already registered"
	case errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrThrottled):
		return http.StatusTooManyRequests, "too many requests, retry later"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
