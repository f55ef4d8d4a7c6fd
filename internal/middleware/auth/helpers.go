package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/rjweb/boilerplate/internal/models"
)

const userContextKey = "user"

func setUserContext(c echo.Context, user *models.User) {
	c.Set(userContextKey, user)
}

// UserFromContext returns the identity a guard verified earlier in the
// chain, or nil on unguarded routes.
func UserFromContext(c echo.Context) *models.User {
	if v := c.Get(userContextKey); v != nil {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
