package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cadastro-saude/patient-registry/internal/config"
	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
	"github.com/cadastro-saude/patient-registry/pkg/security"
)

var ErrMissingAdminCredentials = errors.New("seed admin email and password are required")

// Admin creates the master admin user unless a user with that email exists.
// An existing user is returned untouched.
func Admin(ctx context.Context, users repository.UserRepository, hasher security.PasswordHasher,
	cfg config.SeedConfig, logger zerolog.Logger) (*model.User, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil, ErrMissingAdminCredentials
	}

	existing, err := users.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		logger.Info().Str("email", existing.Email).Msg("admin user already exists")
		return existing, nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.AdminName
	if name == "" {
		name = "Administrador"
	}
	admin := &model.User{
		Name:         name,
		Email:        cfg.AdminEmail,
		PasswordHash: &hash,
		Role:         model.UserRoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info().Str("user_id", admin.ID.String()).Str("email", admin.Email).Msg("admin user created")
	return admin, nil
}
