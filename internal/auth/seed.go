package auth

import (
	"context"
	"fmt"

	"github.com/anamartins/controledoces-backend/internal/users"
	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	"github.com/anamartins/controledoces-backend/pkg/logger"
	"github.com/anamartins/controledoces-backend/pkg/security"
)

const (
	defaultAdminName     = "Admin"
	defaultAdminEmail    = "admin@controle.com"
	defaultAdminPassword = "123456"
)

// EnsureDefaultAdmin seeds the first user on an empty install so the owner
// can log in right after setup. It never touches a database that already has
// users.
func EnsureDefaultAdmin(ctx context.Context, repo *users.Repository, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(defaultAdminPassword, passwordCfg)
	if err != nil {
		return fmt.Errorf("hashing default admin password: %w", err)
	}

	admin := &models.User{Name: defaultAdminName, Email: defaultAdminEmail, PasswordHash: hash}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("seeding default admin: %w", err)
	}

	logg.Info(logg.WithField(ctx, "email", defaultAdminEmail), "default admin seeded")
	return nil
}
