package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rjweb/boilerplate/internal/hash"
	"github.com/rjweb/boilerplate/internal/logging"
	"github.com/rjweb/boilerplate/internal/models"
	"github.com/rjweb/boilerplate/internal/repo"
	"github.com/rjweb/boilerplate/internal/session"
)

var ErrUnauthorized = errors.New("unauthorized")

// timingHash is a throwaway bcrypt hash compared against when the email
// does not resolve, so an unknown email costs the same as a wrong
// password.
const timingHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthService struct {
	Repo  *repo.UserRepo
	Codec *session.Codec
}

// Register creates an account. role falls back to "user" when empty or
// unknown; verified is set only for master accounts. The verification
// token is generated for a future email-confirmation collaborator and is
// not consulted anywhere in this service.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if !models.ValidRole(role) {
		role = models.RoleUser
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:             email,
		PasswordHash:      pwHash,
		Role:              role,
		Verified:          role == models.RoleMaster,
		VerificationToken: newVerificationToken(),
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_failed", "reason", "email taken")
			return nil, err
		}
		l.Error("register_failed", "error", err)
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials. A missing account and a wrong password are
// both (nil, nil); the caller cannot learn whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(timingHash), []byte(password))
			return nil, nil
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}

	user.PasswordHash = ""
	return user, nil
}

// ResolveCaller maps a request to its authenticated user, or nil. Every
// failure mode, including a store error or a session for a deleted user,
// degrades to anonymous; identity resolution never returns an error.
func (s *AuthService) ResolveCaller(ctx context.Context, r *http.Request) *models.User {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil
	}

	userID := s.Codec.Decode(cookie.Value)
	if userID == uuid.Nil {
		return nil
	}

	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			logging.FromContext(ctx).Warn("caller_resolution_degraded", "error", err)
		}
		return nil
	}
	return user
}

// RequireCaller resolves the caller or reports ErrUnauthorized.
func (s *AuthService) RequireCaller(ctx context.Context, r *http.Request) (*models.User, error) {
	user := s.ResolveCaller(ctx, r)
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// IssueCookie encodes a fresh 30-day session cookie for the user.
func (s *AuthService) IssueCookie(user *models.User) (*http.Cookie, error) {
	token, err := s.Codec.Encode(user.ID)
	if err != nil {
		return nil, err
	}
	return s.Codec.NewCookie(token), nil
}

// ClearCookie destroys the client-held session.
func (s *AuthService) ClearCookie() *http.Cookie {
	return s.Codec.ClearCookie()
}

func newVerificationToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
