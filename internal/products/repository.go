package products

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

func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Order("nome ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return list, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding product %d: %w", id, err)
	}
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error; err != nil {
		return fmt.Errorf("saving product: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("deleting product %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// CountSales returns how many recorded sales reference the product.
func (r *Repository) CountSales(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("produto_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting sales for product %d: %w", productID, err)
	}
	return count, nil
}

func (r *Repository) FindSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding supplier %d: %w", id, err)
	}
	return &supplier, nil
}
