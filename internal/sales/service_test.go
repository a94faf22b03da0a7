package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/internal/products"
	"github.com/anamartins/controledoces-backend/internal/settlements"
	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/db"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

const pendingIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS uq_acertos_fornecedor_pendente ON acertos (fornecedor_id) WHERE status = 'PENDENTE'`

type fixture struct {
	conn    *gorm.DB
	service Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := db.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Supplier{},
		&models.Customer{},
		&models.Product{},
		&models.Sale{},
		&models.Settlement{},
		&models.User{},
	))
	require.NoError(t, conn.Exec(pendingIndexSQL).Error)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	salesRepo, err := NewRepository(conn)
	require.NoError(t, err)
	productsRepo, err := products.NewRepository(conn)
	require.NoError(t, err)
	catalog, err := products.NewService(productsRepo, logg)
	require.NoError(t, err)
	engine, err := settlements.NewEngine(conn)
	require.NoError(t, err)

	svc, err := NewService(db.NewFromConn(conn, config.DriverSQLite), salesRepo, catalog, engine, logg)
	require.NoError(t, err)

	return &fixture{conn: conn, service: svc}
}

func (f *fixture) supplier(t *testing.T, name string, percent float64) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{Name: name, CommissionPercent: percent}
	require.NoError(t, f.conn.Create(supplier).Error)
	return supplier
}

func (f *fixture) product(t *testing.T, name string, price float64, supplierID *uint) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, SellPrice: price, SupplierID: supplierID}
	require.NoError(t, f.conn.Create(product).Error)
	return product
}

func (f *fixture) pendingFor(t *testing.T, supplierID uint) *models.Settlement {
	t.Helper()
	var settlement models.Settlement
	err := f.conn.
		Where("fornecedor_id = ? AND status = ?", supplierID, models.SettlementPending).
		First(&settlement).Error
	require.NoError(t, err)
	return &settlement
}

func TestCreateSaleAccruesToSettlement(t *testing.T) {
	f := newFixture(t)
	ana := f.supplier(t, "Doces da Ana", 30)
	brigadeiro := f.product(t, "Brigadeiro", 5, &ana.ID)

	result, err := f.service.Create(context.Background(), CreateSaleInput{
		ProductID: brigadeiro.ID,
		Quantity:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(50), result.Sale.TotalValue)
	assert.Equal(t, 10, result.Sale.Quantity)
	require.NotNil(t, result.Settlement)
	assert.Equal(t, float64(50), result.Settlement.TotalSold)
	assert.Equal(t, float64(15), result.Settlement.CommissionValue)
	assert.Equal(t, models.SettlementPending, result.Settlement.Status)
}

func TestSecondSaleAccruesToSameSettlement(t *testing.T) {
	f := newFixture(t)
	ana := f.supplier(t, "Doces da Ana", 30)
	brigadeiro := f.product(t, "Brigadeiro", 5, &ana.ID)
	ctx := context.Background()

	first, err := f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, Quantity: 10})
	require.NoError(t, err)
	second, err := f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, Quantity: 4})
	require.NoError(t, err)

	assert.Equal(t, first.Settlement.ID, second.Settlement.ID)
	assert.Equal(t, float64(70), second.Settlement.TotalSold)
	assert.Equal(t, float64(21), second.Settlement.CommissionValue)

	var count int64
	require.NoError(t, f.conn.Model(&models.Settlement{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteSaleReversesAccrual(t *testing.T) {
	f := newFixture(t)
	ana := f.supplier(t, "Doces da Ana", 30)
	brigadeiro := f.product(t, "Brigadeiro", 5, &ana.ID)
	ctx := context.Background()

	first, err := f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, Quantity: 4})
	require.NoError(t, err)

	result, err := f.service.Delete(ctx, first.Sale.ID)
	require.NoError(t, err)

	require.NotNil(t, result.Settlement)
	assert.Equal(t, float64(20), result.Settlement.TotalSold)
	assert.Equal(t, float64(6), result.Settlement.CommissionValue)

	var count int64
	require.NoError(t, f.conn.Model(&models.Sale{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateSaleRecomputesFromCurrentPrice(t *testing.T) {
	f := newFixture(t)
	ana := f.supplier(t, "Doces da Ana", 30)
	brigadeiro := f.product(t, "Brigadeiro", 5, &ana.ID)
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, Quantity: 10})
	require.NoError(t, err)

	// The product got a new price; an edited sale picks it up.
	require.NoError(t, f.conn.Model(&models.Product{}).Where("id = ?", brigadeiro.ID).Update("preco_venda", 6).Error)

	qty := 5
	result, err := f.service.Update(ctx, created.Sale.ID, UpdateSaleInput{Quantity: &qty})
	require.NoError(t, err)

	assert.Equal(t, float64(30), result.Sale.TotalValue)
	require.NotNil(t, result.Settlement)
	assert.Equal(t, float64(30), result.Settlement.TotalSold)
	assert.Equal(t, float64(9), result.Settlement.CommissionValue)
}

func TestUpdateSaleMovesAccrualBetweenSuppliers(t *testing.T) {
	f := newFixture(t)
	ana := f.supplier(t, "Doces da Ana", 30)
	bia := f.supplier(t, "Bolos da Bia", 20)
	brigadeiro := f.product(t, "Brigadeiro", 5, &ana.ID)
	bolo := f.product(t, "Bolo de pote", 10, &bia.ID)
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, Quantity: 10})
	require.NoError(t, err)

	result, err := f.service.Update(ctx, created.Sale.ID, UpdateSaleInput{ProductID: &bolo.ID})
	require.NoError(t, err)

	// Ana's settlement dropped back to zero, Bia's carries the new total.
	anaSettlement := f.pendingFor(t, ana.ID)
	assert.Zero(t, anaSettlement.TotalSold)
	assert.Zero(t, anaSettlement.CommissionValue)

	require.NotNil(t, result.Settlement)
	assert.Equal(t, bia.ID, result.Settlement.SupplierID)
	assert.Equal(t, float64(100), result.Settlement.TotalSold)
	assert.Equal(t, float64(20), result.Settlement.CommissionValue)
}

func TestSaleOfSupplierlessProductDoesNotSettle(t *testing.T) {
	f := newFixture(t)
	avulso := f.product(t, "Docinho avulso", 3, nil)
	ctx := context.Background()

	result, err := f.service.Create(ctx, CreateSaleInput{ProductID: avulso.ID, Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, float64(6), result.Sale.TotalValue)
	assert.Nil(t, result.Settlement)

	var count int64
	require.NoError(t, f.conn.Model(&models.Settlement{}).Count(&count).Error)
	assert.Zero(t, count)

	// Deleting it is equally settlement-free.
	deleted, err := f.service.Delete(ctx, result.Sale.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted.Settlement)
}

func TestDeleteSaleAfterSupplierRemoved(t *testing.T) {
	f := newFixture(t)
	ana := f.supplier(t, "Doces da Ana", 30)
	brigadeiro := f.product(t, "Brigadeiro", 5, &ana.ID)
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, Quantity: 10})
	require.NoError(t, err)
	require.NotNil(t, created.Settlement)

	// Removing the supplier detaches the product and drops its pending
	// settlement; the sale still deletes, just with nothing to reverse.
	require.NoError(t, f.conn.Delete(&models.Supplier{}, ana.ID).Error)

	result, err := f.service.Delete(ctx, created.Sale.ID)
	require.NoError(t, err)
	assert.Nil(t, result.Settlement)

	var count int64
	require.NoError(t, f.conn.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateSaleInput{ProductID: 999, Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Produto não encontrado", typed.Message())

	var count int64
	require.NoError(t, f.conn.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateUnknownSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Update(context.Background(), 999, UpdateSaleInput{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Venda não encontrada", typed.Message())
}

func TestUpdateSaleDetachesCustomerOnExplicitNull(t *testing.T) {
	f := newFixture(t)
	ana := f.supplier(t, "Doces da Ana", 30)
	brigadeiro := f.product(t, "Brigadeiro", 5, &ana.ID)
	cliente := &models.Customer{Name: "Maria"}
	require.NoError(t, f.conn.Create(cliente).Error)
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateSaleInput{ProductID: brigadeiro.ID, CustomerID: &cliente.ID, Quantity: 1})
	require.NoError(t, err)
	require.NotNil(t, created.Sale.CustomerID)

	// Omitted field keeps the customer.
	var keep UpdateSaleInput
	require.NoError(t, json.Unmarshal([]byte(`{"quantidade": 2}`), &keep))
	kept, err := f.service.Update(ctx, created.Sale.ID, keep)
	require.NoError(t, err)
	require.NotNil(t, kept.Sale.CustomerID)
	assert.Equal(t, cliente.ID, *kept.Sale.CustomerID)

	// Explicit null detaches it.
	var detach UpdateSaleInput
	require.NoError(t, json.Unmarshal([]byte(`{"clienteId": null}`), &detach))
	detached, err := f.service.Update(ctx, created.Sale.ID, detach)
	require.NoError(t, err)
	assert.Nil(t, detached.Sale.CustomerID)
}
