package migrate

import (
	"context"
	"fmt"

	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/db"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

// The partial index serializes settlement creation at the storage layer: a
// supplier can never hold two PENDENTE rows. Same syntax on sqlite and postgres.
const pendingSettlementIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uq_acertos_fornecedor_pendente ON acertos (fornecedor_id) WHERE status = 'PENDENTE'`

// MaybeRun applies the schema on boot when auto-migration is enabled. The
// sqlite path (local installs) uses GORM's migrator; postgres deployments run
// the goose migrations instead.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithField(ctx, "driver", client.Driver())
	logg.Info(ctx, "applying schema migrations")

	if client.Driver() == config.DriverPostgres {
		sqlDB, err := client.DB().DB()
		if err != nil {
			return fmt.Errorf("extracting sql.DB: %w", err)
		}
		if err := Up(ctx, sqlDB); err != nil {
			return fmt.Errorf("running goose up: %w", err)
		}
		logg.Info(ctx, "goose migrations completed")
		return nil
	}

	conn := client.DB().WithContext(ctx)
	if err := conn.AutoMigrate(
		&models.Supplier{},
		&models.Customer{},
		&models.Product{},
		&models.Sale{},
		&models.Settlement{},
		&models.User{},
	); err != nil {
		return fmt.Errorf("auto-migrating sqlite schema: %w", err)
	}
	if err := conn.Exec(pendingSettlementIndex).Error; err != nil {
		return fmt.Errorf("creating pending settlement index: %w", err)
	}

	logg.Info(ctx, "sqlite schema up to date")
	return nil
}
