package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// userContextKey is where the middleware stores the authenticated user.
const userContextKey = "user"

// Middleware returns an Echo middleware that resolves the Authorization
// header to a user. Both "Token <key>" (what the existing frontend sends)
// and "Bearer <key>" are accepted.
func Middleware(store Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := extractKey(c.Request().Header.Get(echo.HeaderAuthorization))
			if key == "" {
				return echo.NewHTTPError(http.StatusUnauthorized,
					apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken).ToErrorResponse())
			}
			user, err := store.Resolve(c.Request().Context(), key)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized,
					apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken).ToErrorResponse())
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user from the request context, or
// nil on unauthenticated routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

func extractKey(header string) string {
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
