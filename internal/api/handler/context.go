package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exam-manager/exam-system/internal/api/middleware"
	"github.com/exam-manager/exam-system/internal/core/domain"
)

// principal extracts the authenticated user placed in the context by the
// Auth middleware.
func principal(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUser).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// bearerToken returns the raw access token of the current request.
func bearerToken(c echo.Context) (string, error) {
	token, _ := c.Get(middleware.ContextToken).(string)
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return token, nil
}
