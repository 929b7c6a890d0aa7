package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
)

type EmailHandler struct {
	authService ports.AuthService
}

func NewEmailHandler(authService ports.AuthService) *EmailHandler {
	return &EmailHandler{authService: authService}
}

// SendVerification re-sends the signed verification link.
//
// @Summary      Resend verification email
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      429   {object}  envelope
// @Router       /email/verification-notification [post]
func (h *EmailHandler) SendVerification(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.SendVerification(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "email does not match any account")
		}
		return err
	}

	return respond(c, http.StatusOK, "verification link sent", nil)
}

// VerifyEmail consumes a signed verification link.
//
// @Summary      Verify email address
// @Tags         email
// @Produce      json
// @Param        id         path   string  true  "User id"
// @Param        hash       path   string  true  "Email hash"
// @Param        expires    query  int     true  "Expiry unix timestamp"
// @Param        signature  query  string  true  "Link signature"
// @Success      302
// @Failure      403  {object}  envelope
// @Router       /email/verify/{id}/{hash} [get]
func (h *EmailHandler) VerifyEmail(c echo.Context) error {
	expires, err := strconv.ParseInt(c.QueryParam("expires"), 10, 64)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	err = h.authService.VerifyEmailLink(
		c.Request().Context(),
		c.Param("id"),
		c.Param("hash"),
		expires,
		c.QueryParam("signature"),
	)
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// ForgotPassword emails a password reset link.
//
// @Summary      Request password reset
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /forgot-password [post]
func (h *EmailHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "we could not find a user with that email")
		}
		return err
	}

	return respond(c, http.StatusOK, "password reset link sent", nil)
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /reset-password [post]
func (h *EmailHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Email, req.Password); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "password has been reset", nil)
}
