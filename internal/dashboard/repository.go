package dashboard

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &Repository{db: db}, nil
}

func (r *Repository) CountSuppliers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Supplier{})
}

func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Customer{})
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Product{})
}

func (r *Repository) CountSales(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Sale{})
}

func (r *Repository) count(ctx context.Context, model any) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return count, nil
}

// SumSalesTotal returns total revenue across every recorded sale.
func (r *Repository) SumSalesTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COALESCE(SUM(valor_total), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("summing sales total: %w", err)
	}
	return total, nil
}
