package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIRegistry maps route names to handlers for the API passthrough.
// The mapping is built once at startup; nothing is resolved from request
// strings at runtime beyond this lookup.
type APIRegistry struct {
	routes map[string]echo.HandlerFunc
}

func NewAPIRegistry() *APIRegistry {
	return &APIRegistry{routes: map[string]echo.HandlerFunc{}}
}

func (r *APIRegistry) Add(name string, h echo.HandlerFunc) {
	r.routes[name] = h
}

func (r *APIRegistry) Dispatch(c echo.Context) error {
	name := c.Param("name")
	h, ok := r.routes[name]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Not Found",
			"path":  name,
		})
	}
	return h(c)
}
