package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rjweb/boilerplate/internal/events"
	"github.com/rjweb/boilerplate/internal/logging"
	mwauth "github.com/rjweb/boilerplate/internal/middleware/auth"
	"github.com/rjweb/boilerplate/internal/models"
	"github.com/rjweb/boilerplate/internal/service"
	"github.com/rjweb/boilerplate/internal/validate"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *events.Producer
}

type credentialsRequest struct {
	Email           string `json:"email"            form:"email"`
	Password        string `json:"password"         form:"password"`
	ConfirmPassword string `json:"confirmPassword"  form:"confirmPassword"`
	Role            string `json:"role"             form:"role"`
}

// register runs the shared registration flow and reports the created
// user, or writes the error response itself and returns nil.
func (h *AuthHandler) register(c echo.Context) (*models.User, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return nil, c.JSON(http.StatusBadRequest, echo.Map{
			"errors": echo.Map{"form": "Invalid request body"},
		})
	}

	if errs := validate.Registration(req.Email, req.Password, req.ConfirmPassword); errs != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	// Only an admin or master caller may pick a role for the new
	// account; everyone else gets "user" no matter what they sent. The
	// API route is unguarded, so resolve the caller here when no guard
	// ran.
	role := models.RoleUser
	caller := mwauth.UserFromContext(c)
	if caller == nil {
		caller = h.Svc.ResolveCaller(ctx, c.Request())
	}
	if caller != nil && (caller.Role == models.RoleAdmin || caller.IsMaster()) {
		role = req.Role
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, role)
	if err != nil {
		if errs := duplicateFieldErrors(err); errs != nil {
			return nil, c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{
			"errors": echo.Map{"form": "Error creating account"},
		})
	}

	h.publishEvent(c, "user_registered", user)
	return user, nil
}

// Register is the API flavor: self-registration, session cookie plus the
// created record in the response.
func (h *AuthHandler) Register(c echo.Context) error {
	user, err := h.register(c)
	if user == nil {
		return err
	}

	cookie, err := h.Svc.IssueCookie(user)
	if err != nil {
		return internalError(c)
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// RegisterPage backs the admin "create new user" form. The router gates
// the route by role; the requester keeps their own session, so no cookie
// is issued for the new account.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	user, err := h.register(c)
	if user == nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) login(c echo.Context) (*models.User, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return nil, c.JSON(http.StatusBadRequest, echo.Map{
			"errors": echo.Map{"form": "Invalid request body"},
		})
	}

	errs := map[string]string{}
	if msg := validate.Email(req.Email); msg != "" {
		errs["email"] = msg
	}
	if req.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) > 0 {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	user, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{
			"errors": echo.Map{"form": "An error occurred during login"},
		})
	}
	if user == nil {
		// Same response for unknown email and wrong password.
		return nil, c.JSON(http.StatusBadRequest, echo.Map{
			"errors": echo.Map{"form": "Invalid credentials"},
		})
	}

	cookie, err := h.Svc.IssueCookie(user)
	if err != nil {
		return nil, internalError(c)
	}
	c.SetCookie(cookie)

	h.publishEvent(c, "user_logged_in", user)
	l.Info("login_successful")
	return user, nil
}

func (h *AuthHandler) Login(c echo.Context) error {
	user, err := h.login(c)
	if user == nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	user, err := h.login(c)
	if user == nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

// RegisterForm is the GET /register loader for the admin create-user
// form.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"title": "Create new user"})
}

// LoginForm is the GET /login loader: an authenticated caller is sent
// straight to the dashboard.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if h.Svc.ResolveCaller(c.Request().Context(), c.Request()) != nil {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return c.JSON(http.StatusOK, echo.Map{"title": "Login"})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.Svc.ClearCookie())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) LogoutPage(c echo.Context) error {
	c.SetCookie(h.Svc.ClearCookie())
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) publishEvent(c echo.Context, eventType string, user *models.User) {
	event := map[string]interface{}{
		"type":    eventType,
		"user_id": user.ID.String(),
		"email":   user.Email,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, user.ID.String(), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}
