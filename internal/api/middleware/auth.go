package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/exam-manager/exam-system/internal/core/ports"
)

// Context keys set by Auth for downstream middleware and handlers.
const (
	ContextUser  = "auth_user"
	ContextToken = "auth_token"
)

// Auth resolves the bearer token to its user and injects both into the
// request context. Tokens are opaque and revocable: a logged-out token
// no longer resolves, so this lookup is the revocation check.
func Auth(tokens ports.TokenIssuer, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			token, err := tokens.Lookup(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), token.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextUser, user)
			c.Set(ContextToken, parts[1])

			return next(c)
		}
	}
}
