package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aicoconsole/pkg/models"
)

// ContextKey represents keys for context values
type ContextKey string

// UserContextKey is where RequireAuth stores the authenticated operator
const UserContextKey ContextKey = "user"

// RequireAuth validates the Bearer token and puts the operator in the
// request context
func RequireAuth(tokenService *TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			user, err := tokenService.ValidateAccessToken(c.Request().Context(), tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(string(UserContextKey), user)
			return next(c)
		}
	}
}

// GetUser extracts the authenticated operator from echo context
func GetUser(c echo.Context) *models.SystemUser {
	userInterface := c.Get(string(UserContextKey))
	if userInterface == nil {
		return nil
	}
	user, ok := userInterface.(*models.SystemUser)
	if !ok {
		return nil
	}
	return user
}
