package middleware

import (
	"net/http"

	"aeroportal/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireSuperAdmin guards routes only superadmins may reach (user
// management). This is a hard 403, unlike capability restrictions which are
// recoverable and handled in the handlers.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if user.Role != models.UserRoleSuperAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Unauthorized. Only superadmins can access this page.")
			}
			return next(c)
		}
	}
}
