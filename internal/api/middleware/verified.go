package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exam-manager/exam-system/internal/core/domain"
)

// Verified blocks users that have not completed email verification.
// Must run after Auth.
func Verified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextUser).(*domain.User)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !user.Verified() {
				return echo.NewHTTPError(http.StatusForbidden, "please verify your email first")
			}
			return next(c)
		}
	}
}
