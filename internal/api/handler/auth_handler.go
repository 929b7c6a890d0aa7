package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exam-manager/exam-system/internal/api/metrics"
	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
)

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrEmailUnverified):
		return "unverified"
	default:
		return "bad_credentials"
	}
}

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and sends a verification email.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "user registered successfully. Check your mailbox to verify your email", user)
}

// Login checks credentials and sends a one-time code by email.
//
// @Summary      Login (first factor)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("otp_sent").Inc()
	return respond(c, http.StatusOK, "a verification code has been sent to your email", nil)
}

// VerifyOTP exchanges a one-time code for an access token.
//
// @Summary      Login (second factor)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "One-time code"
// @Success      200   {object}  envelope{data=sessionResponse}
// @Failure      401   {object}  envelope
// @Router       /login/verify-user [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.authService.VerifyOTP(c.Request().Context(), req.OTP)
	if err != nil {
		result := "invalid"
		if errors.Is(err, domain.ErrEmailUnverified) {
			result = "unverified"
		}
		metrics.OTPConsumedTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.OTPConsumedTotal.WithLabelValues("ok").Inc()
	return respond(c, http.StatusOK, "logged in successfully", sessionResponse{Token: token, User: user})
}

// Logout revokes the access token used on this request.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "logged out successfully", nil)
}

// CurrentUser returns the authenticated user and their actor profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=profileResponse}
// @Failure      401  {object}  envelope
// @Router       /user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	acting, err := principal(c)
	if err != nil {
		return err
	}

	user, actor, err := h.authService.CurrentUser(c.Request().Context(), acting)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "authenticated user", profileResponse{User: user, Actor: actor})
}

// ListUsers returns every account with the regular user role.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]domain.User}
// @Failure      403  {object}  envelope
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	acting, err := principal(c)
	if err != nil {
		return err
	}

	users, err := h.authService.ListUsers(c.Request().Context(), acting)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "users retrieved successfully", users)
}
