package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rjweb/boilerplate/internal/service"
)

// Guard wraps handlers so they only run for a verified identity. The
// caller picks the flavor: API routes get structured 401s, page routes
// get redirects. The guard itself has no notion of caller type.
type Guard struct {
	Svc *service.AuthService
}

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// RequireUserAPI rejects anonymous callers with a 401 payload.
func (g *Guard) RequireUserAPI(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := g.Svc.ResolveCaller(c.Request().Context(), c.Request())
		if user == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error":   "Unauthorized",
				"message": "Please log in to access this resource",
			})
		}
		setUserContext(c, user)
		return next(c)
	}
}

// RequireUserPage redirects anonymous callers to the login page.
func (g *Guard) RequireUserPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := g.Svc.ResolveCaller(c.Request().Context(), c.Request())
		if user == nil {
			return c.Redirect(http.StatusFound, LoginPath)
		}
		setUserContext(c, user)
		return next(c)
	}
}
