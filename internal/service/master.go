package service

import (
	"context"

	"github.com/rjweb/boilerplate/internal/hash"
	"github.com/rjweb/boilerplate/internal/logging"
	"github.com/rjweb/boilerplate/internal/models"
)

// EnsureMasterUser replaces the master account for the configured email
// at startup. Only the record matching email is removed; master accounts
// under other emails are left alone. Skipped with a warning when the
// credentials are not configured.
func (s *AuthService) EnsureMasterUser(ctx context.Context, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_master")

	if email == "" || password == "" {
		l.Warn("master user credentials not configured, skipping bootstrap")
		return nil
	}

	if err := s.Repo.DeleteByEmailAndRole(ctx, email, models.RoleMaster); err != nil {
		l.Error("master_bootstrap_failed", "reason", "cannot delete existing record", "error", err)
		return err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:             email,
		PasswordHash:      pwHash,
		Role:              models.RoleMaster,
		Verified:          true,
		VerificationToken: newVerificationToken(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		l.Error("master_bootstrap_failed", "error", err)
		return err
	}

	l.Info("master user created", "id", user.ID, "email", user.Email)
	return nil
}
