package dashboard

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/internal/settlements"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Supplier{},
		&models.Customer{},
		&models.Product{},
		&models.Sale{},
		&models.Settlement{},
	))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	repo, err := NewRepository(conn)
	require.NoError(t, err)
	settlementsRepo, err := settlements.NewRepository(conn)
	require.NoError(t, err)
	settlementsSvc, err := settlements.NewService(settlementsRepo, logg)
	require.NoError(t, err)
	svc, err := NewService(repo, settlementsSvc, settlementsRepo, logg)
	require.NoError(t, err)
	return svc, conn
}

func TestSummaryOnEmptyDatabase(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalSuppliers)
	assert.Zero(t, summary.TotalSales)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.PendingCommission)
	assert.Nil(t, summary.PendingSettlementID)
	assert.Nil(t, summary.LastReceivedSettlementID)
	assert.Equal(t, "NENHUM_PENDENTE", summary.SettlementStatus)
	assert.Empty(t, summary.RecentSettlements)
}

func TestSummaryAggregates(t *testing.T) {
	svc, conn := newTestService(t)

	ana := &models.Supplier{Name: "Doces da Ana", CommissionPercent: 30}
	require.NoError(t, conn.Create(ana).Error)
	maria := &models.Customer{Name: "Maria"}
	require.NoError(t, conn.Create(maria).Error)
	brigadeiro := &models.Product{Name: "Brigadeiro", SellPrice: 5, SupplierID: &ana.ID}
	require.NoError(t, conn.Create(brigadeiro).Error)

	for _, total := range []float64{50, 20} {
		sale := &models.Sale{ProductID: brigadeiro.ID, Quantity: 1, TotalValue: total, SoldAt: time.Now()}
		require.NoError(t, conn.Create(sale).Error)
	}

	now := time.Now()
	received := &models.Settlement{SupplierID: ana.ID, PeriodStart: now.Add(-48 * time.Hour), PeriodEnd: &now, CommissionPercent: 30, TotalSold: 100, CommissionValue: 30, Status: models.SettlementReceived, ReceivedAt: &now}
	require.NoError(t, conn.Create(received).Error)
	pending := &models.Settlement{SupplierID: ana.ID, PeriodStart: now, CommissionPercent: 30, TotalSold: 70, CommissionValue: 21, Status: models.SettlementPending}
	require.NoError(t, conn.Create(pending).Error)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TotalSuppliers)
	assert.Equal(t, int64(1), summary.TotalCustomers)
	assert.Equal(t, int64(1), summary.TotalProducts)
	assert.Equal(t, int64(2), summary.TotalSales)
	assert.Equal(t, float64(70), summary.TotalRevenue)

	assert.Equal(t, float64(21), summary.PendingCommission)
	require.NotNil(t, summary.PendingSettlementID)
	assert.Equal(t, pending.ID, *summary.PendingSettlementID)
	assert.Equal(t, "PENDENTE", summary.SettlementStatus)
	// The reopen affordance only shows when nothing is pending.
	assert.Nil(t, summary.LastReceivedSettlementID)
	assert.Len(t, summary.RecentSettlements, 2)
}

func TestSummaryOffersReopenWhenNothingPending(t *testing.T) {
	svc, conn := newTestService(t)

	ana := &models.Supplier{Name: "Doces da Ana", CommissionPercent: 30}
	require.NoError(t, conn.Create(ana).Error)

	earlier := time.Now().Add(-24 * time.Hour)
	now := time.Now()
	first := &models.Settlement{SupplierID: ana.ID, PeriodStart: earlier.Add(-time.Hour), PeriodEnd: &earlier, CommissionPercent: 30, TotalSold: 50, CommissionValue: 15, Status: models.SettlementReceived, ReceivedAt: &earlier}
	require.NoError(t, conn.Create(first).Error)
	latest := &models.Settlement{SupplierID: ana.ID, PeriodStart: earlier, PeriodEnd: &now, CommissionPercent: 30, TotalSold: 100, CommissionValue: 30, Status: models.SettlementReceived, ReceivedAt: &now}
	require.NoError(t, conn.Create(latest).Error)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.PendingCommission)
	assert.Nil(t, summary.PendingSettlementID)
	assert.Equal(t, "NENHUM_PENDENTE", summary.SettlementStatus)
	require.NotNil(t, summary.LastReceivedSettlementID)
	assert.Equal(t, latest.ID, *summary.LastReceivedSettlementID)
}

func TestSummarySubCentCommissionStillPending(t *testing.T) {
	svc, conn := newTestService(t)

	ana := &models.Supplier{Name: "Doces da Ana", CommissionPercent: 30}
	require.NoError(t, conn.Create(ana).Error)

	tiny := &models.Settlement{SupplierID: ana.ID, PeriodStart: time.Now(), CommissionPercent: 30, TotalSold: 0.01, CommissionValue: 0.003, Status: models.SettlementPending}
	require.NoError(t, conn.Create(tiny).Error)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	// 0.01 * 30% rounds to 0.00 on display but the settlement is still owed.
	assert.Zero(t, summary.PendingCommission)
	assert.Equal(t, "PENDENTE", summary.SettlementStatus)
	require.NotNil(t, summary.PendingSettlementID)
	assert.Equal(t, tiny.ID, *summary.PendingSettlementID)
	assert.Nil(t, summary.LastReceivedSettlementID)
}

func TestSummaryRecomputesCommissionFromTotals(t *testing.T) {
	svc, conn := newTestService(t)

	ana := &models.Supplier{Name: "Doces da Ana", CommissionPercent: 30}
	require.NoError(t, conn.Create(ana).Error)

	// valor_comissao drifted; the summary trusts total_vendido instead.
	drifted := &models.Settlement{SupplierID: ana.ID, PeriodStart: time.Now(), CommissionPercent: 30, TotalSold: 33.33, CommissionValue: 999, Status: models.SettlementPending}
	require.NoError(t, conn.Create(drifted).Error)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.PendingCommission)
}
