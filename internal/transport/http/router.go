package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rjweb/boilerplate/internal/handlers"
	mwauth "github.com/rjweb/boilerplate/internal/middleware/auth"
	"github.com/rjweb/boilerplate/internal/middleware/csrf"
	"github.com/rjweb/boilerplate/internal/models"
)

type Deps struct {
	AuthHandler      *handlers.AuthHandler
	ProfileHandler   *handlers.ProfileHandler
	DashboardHandler *handlers.DashboardHandler
	Guard            *mwauth.Guard
	SecureCookies    bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// Browser-navigable routes: CSRF-protected forms, redirects on auth
	// failure.
	pages := e.Group("", csrf.Middleware(csrf.Config{Secure: d.SecureCookies}))

	pages.GET("/login", d.AuthHandler.LoginForm)
	pages.POST("/login", d.AuthHandler.LoginPage)
	pages.POST("/logout", d.AuthHandler.LogoutPage)
	pages.GET("/unauthorized", func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":   "Forbidden",
			"message": "You do not have access to this resource",
		})
	})

	// The register page is the admin "create new user" surface; master
	// passes the gate like any other role check.
	pages.GET("/register", d.AuthHandler.RegisterForm, d.Guard.RequireRolePage(models.RoleAdmin))
	pages.POST("/register", d.AuthHandler.RegisterPage, d.Guard.RequireRolePage(models.RoleAdmin))
	pages.GET("/dashboard", d.DashboardHandler.List, d.Guard.RequireUserPage)
	pages.GET("/profile", d.ProfileHandler.Get, d.Guard.RequireUserPage)
	pages.POST("/profile", d.ProfileHandler.Update, d.Guard.RequireUserPage)

	// Machine callers: structured 401/403, no redirects, no CSRF.
	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/me", d.ProfileHandler.Get, d.Guard.RequireUserAPI)

	admin := v1.Group("/admin", d.Guard.RequireRoleAPI(models.RoleAdmin))
	admin.GET("/users", d.DashboardHandler.List)

	registry := handlers.NewAPIRegistry()
	registry.Add("dashboard", d.DashboardHandler.List)
	registry.Add("profile", d.ProfileHandler.Get)
	v1.GET("/r/:name", registry.Dispatch, d.Guard.RequireUserAPI)
}
