package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "controle.db?_foreign_keys=on", SQLiteDSN("controle.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", SQLiteDSN("file:x?mode=memory"))
}

func TestNewEnforcesForeignKeysOnSQLite(t *testing.T) {
	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	client, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	require.NoError(t, conn.AutoMigrate(&models.Supplier{}, &models.Product{}, &models.Settlement{}))

	var enabled int
	require.NoError(t, conn.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	supplier := &models.Supplier{Name: "Doces da Ana", CommissionPercent: 30}
	require.NoError(t, conn.Create(supplier).Error)
	product := &models.Product{Name: "Brigadeiro", SellPrice: 5, SupplierID: &supplier.ID}
	require.NoError(t, conn.Create(product).Error)
	settlement := &models.Settlement{SupplierID: supplier.ID, PeriodStart: time.Now(), CommissionPercent: 30, Status: models.SettlementPending}
	require.NoError(t, conn.Create(settlement).Error)

	require.NoError(t, conn.Delete(&models.Supplier{}, supplier.ID).Error)

	// ON DELETE SET NULL detaches the product, ON DELETE CASCADE drops the
	// supplier's settlements.
	var after models.Product
	require.NoError(t, conn.First(&after, product.ID).Error)
	assert.Nil(t, after.SupplierID)

	var count int64
	require.NoError(t, conn.Model(&models.Settlement{}).Count(&count).Error)
	assert.Zero(t, count)
}
