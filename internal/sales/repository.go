package sales

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

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

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns sales newest first, with product, supplier and customer loaded.
func (r *Repository) List(ctx context.Context) ([]models.Sale, error) {
	var list []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Product.Supplier").
		Preload("Customer").
		Order("data_venda DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return list, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Product.Supplier").
		Preload("Customer").
		First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding sale %d: %w", id, err)
	}
	return &sale, nil
}

func (r *Repository) Create(ctx context.Context, sale *models.Sale) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error; err != nil {
		return fmt.Errorf("creating sale: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, sale *models.Sale) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error; err != nil {
		return fmt.Errorf("saving sale: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Sale{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("deleting sale %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}
