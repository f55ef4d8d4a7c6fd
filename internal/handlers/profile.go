package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rjweb/boilerplate/internal/logging"
	mwauth "github.com/rjweb/boilerplate/internal/middleware/auth"
	"github.com/rjweb/boilerplate/internal/repo"
	"github.com/rjweb/boilerplate/internal/validate"
)

type ProfileHandler struct {
	Repo *repo.UserRepo
}

func (h *ProfileHandler) Get(c echo.Context) error {
	user := mwauth.UserFromContext(c)
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// Update changes the caller's email. Role, verified state and password
// are not editable here.
func (h *ProfileHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_update")
	user := mwauth.UserFromContext(c)

	var req struct {
		Email string `json:"email" form:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": echo.Map{"form": "Invalid request body"},
		})
	}

	if msg := validate.Email(req.Email); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": echo.Map{"email": msg},
		})
	}

	if err := h.Repo.Update(ctx, user.ID, map[string]any{"email": req.Email}); err != nil {
		if errs := duplicateFieldErrors(err); errs != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
		}
		l.Error("profile_update_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update profile",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
