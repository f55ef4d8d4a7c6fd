package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rjweb/boilerplate/internal/events"
	"github.com/rjweb/boilerplate/internal/handlers"
	mwauth "github.com/rjweb/boilerplate/internal/middleware/auth"
	"github.com/rjweb/boilerplate/internal/models"
	"github.com/rjweb/boilerplate/internal/repo"
	"github.com/rjweb/boilerplate/internal/service"
	"github.com/rjweb/boilerplate/internal/session"
)

type testApp struct {
	E   *echo.Echo
	Svc *service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	codec, err := session.NewCodec([]byte("test-session-secret"), false)
	require.NoError(t, err)

	userRepo := repo.NewUserRepo(db)
	svc := &service.AuthService{Repo: userRepo, Codec: codec}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:      &handlers.AuthHandler{Svc: svc, Producer: events.NewProducer(nil)},
		ProfileHandler:   &handlers.ProfileHandler{Repo: userRepo},
		DashboardHandler: &handlers.DashboardHandler{Repo: userRepo},
		Guard:            &mwauth.Guard{Svc: svc},
	})

	return &testApp{E: e, Svc: svc}
}

func (app *testApp) do(t *testing.T, method, target string, payload any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.E.ServeHTTP(rec, req)
	return rec
}

// sessionFor creates a user with the given role directly through the
// service and returns its session cookie.
func (app *testApp) sessionFor(t *testing.T, email, role string) *http.Cookie {
	user, err := app.Svc.Register(context.Background(), email, "Abcdefg1", role)
	require.NoError(t, err)
	cookie, err := app.Svc.IssueCookie(user)
	require.NoError(t, err)
	return cookie
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/health/live", nil, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/health/ready", nil, nil).Code)
}

func TestEndToEnd_RegisterThenResolve(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/register", map[string]string{
		"email":           "a@x.com",
		"password":        "Abcdefg1",
		"confirmPassword": "Abcdefg1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "registration must set the session cookie")

	me := app.do(t, http.MethodGet, "/api/v1/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &resp))
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.False(t, resp.User.Verified)
}

func TestAPIGuard_Anonymous(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Unauthorized", resp["error"])
	assert.NotEmpty(t, resp["message"])
}

func TestAPIGuard_DeletedUser(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionFor(t, "a@x.com", "")

	require.NoError(t, app.Svc.Repo.DB.Delete(&models.User{}, "email = ?", "a@x.com").Error)

	rec := app.do(t, http.MethodGet, "/api/v1/me", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPageGuard_RedirectsToLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/dashboard", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestRoleGate_API(t *testing.T) {
	app := newTestApp(t)

	userCookie := app.sessionFor(t, "user@x.com", models.RoleUser)
	adminCookie := app.sessionFor(t, "admin@x.com", models.RoleAdmin)
	masterCookie := app.sessionFor(t, "master@x.com", models.RoleMaster)

	denied := app.do(t, http.MethodGet, "/api/v1/admin/users", nil, userCookie)
	require.Equal(t, http.StatusForbidden, denied.Code)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/v1/admin/users", nil, adminCookie).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/v1/admin/users", nil, masterCookie).Code,
		"master passes any role check")
}

func TestRoleGate_Pages(t *testing.T) {
	app := newTestApp(t)

	userCookie := app.sessionFor(t, "user@x.com", models.RoleUser)
	masterCookie := app.sessionFor(t, "master@x.com", models.RoleMaster)

	denied := app.do(t, http.MethodGet, "/register", nil, userCookie)
	require.Equal(t, http.StatusFound, denied.Code)
	assert.Equal(t, "/unauthorized", denied.Header().Get(echo.HeaderLocation))

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/register", nil, masterCookie).Code)

	anonymous := app.do(t, http.MethodGet, "/register", nil, nil)
	require.Equal(t, http.StatusFound, anonymous.Code)
	assert.Equal(t, "/login", anonymous.Header().Get(echo.HeaderLocation))
}

func TestDashboard_ListsUsersWithoutHashes(t *testing.T) {
	app := newTestApp(t)

	cookie := app.sessionFor(t, "a@x.com", "")
	app.sessionFor(t, "b@x.com", "")

	rec := app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CurrentUserID string        `json:"current_user_id"`
		Users         []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.CurrentUserID)
	assert.Len(t, resp.Users, 2)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestAPIRegistry(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionFor(t, "a@x.com", "")

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/v1/r/dashboard", nil, cookie).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/v1/r/profile", nil, cookie).Code)

	missing := app.do(t, http.MethodGet, "/api/v1/r/nope", nil, cookie)
	require.Equal(t, http.StatusNotFound, missing.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(missing.Body.Bytes(), &resp))
	assert.Equal(t, "Not Found", resp["error"])
	assert.Equal(t, "nope", resp["path"])

	// Unauthenticated callers never reach the registry.
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/v1/r/dashboard", nil, nil).Code)
}

func TestProfileUpdate(t *testing.T) {
	app := newTestApp(t)

	cookie := app.sessionFor(t, "a@x.com", "")
	app.sessionFor(t, "taken@x.com", "")

	// Page route: needs the CSRF token from a prior GET.
	form := app.do(t, http.MethodGet, "/profile", nil, cookie)
	require.Equal(t, http.StatusOK, form.Code)
	csrfToken := form.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, csrfToken)
	var csrfCookie *http.Cookie
	for _, c := range form.Result().Cookies() {
		if c.Name == "XSRF-TOKEN" {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)

	body, _ := json.Marshal(map[string]string{"email": "new@x.com"})
	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-CSRF-Token", csrfToken)
	req.Header.Set("Origin", "http://"+req.Host)
	req.AddCookie(cookie)
	req.AddCookie(csrfCookie)
	rec := httptest.NewRecorder()
	app.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	me := app.do(t, http.MethodGet, "/api/v1/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "new@x.com")
}

func TestLogoutPage_DestroysSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionFor(t, "a@x.com", "")

	form := app.do(t, http.MethodGet, "/login", nil, nil)
	csrfToken := form.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, csrfToken)
	var csrfCookie *http.Cookie
	for _, c := range form.Result().Cookies() {
		if c.Name == "XSRF-TOKEN" {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("X-CSRF-Token", csrfToken)
	req.Header.Set("Origin", "http://"+req.Host)
	req.AddCookie(cookie)
	req.AddCookie(csrfCookie)
	rec := httptest.NewRecorder()
	app.E.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}
