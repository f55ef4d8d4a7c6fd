package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rjweb/boilerplate/internal/logging"
	mwauth "github.com/rjweb/boilerplate/internal/middleware/auth"
	"github.com/rjweb/boilerplate/internal/repo"
)

type DashboardHandler struct {
	Repo *repo.UserRepo
}

// List returns every account for the dashboard user table. Password
// hashes never leave the repository on this path.
func (h *DashboardHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	caller := mwauth.UserFromContext(c)

	users, err := h.Repo.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("dashboard_list_failed", "error", err)
		return internalError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"current_user_id": caller.ID,
		"users":           users,
	})
}
