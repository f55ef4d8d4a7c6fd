package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRolePage gates a page route on role. master passes every check.
// Anonymous callers go to the login page, authenticated callers with an
// insufficient role to the unauthorized page.
func (g *Guard) RequireRolePage(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := g.Svc.ResolveCaller(c.Request().Context(), c.Request())
			if user == nil {
				return c.Redirect(http.StatusFound, LoginPath)
			}
			if user.Role != role && !user.IsMaster() {
				return c.Redirect(http.StatusFound, UnauthorizedPath)
			}
			setUserContext(c, user)
			return next(c)
		}
	}
}

// RequireRoleAPI is the machine-caller variant: 401 for anonymous, 403
// for an insufficient role.
func (g *Guard) RequireRoleAPI(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := g.Svc.ResolveCaller(c.Request().Context(), c.Request())
			if user == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "Unauthorized",
					"message": "Please log in to access this resource",
				})
			}
			if user.Role != role && !user.IsMaster() {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":   "Forbidden",
					"message": "You do not have access to this resource",
				})
			}
			setUserContext(c, user)
			return next(c)
		}
	}
}
