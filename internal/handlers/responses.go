package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rjweb/boilerplate/internal/repo"
)

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":   "Internal Server Error",
		"message": "An unexpected error occurred",
	})
}

func duplicateFieldErrors(err error) map[string]string {
	if errors.Is(err, repo.ErrUserAlreadyExists) {
		return map[string]string{"email": "A user already exists with this email"}
	}
	return nil
}
