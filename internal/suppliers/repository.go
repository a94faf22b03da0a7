package suppliers

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

func (r *Repository) List(ctx context.Context) ([]models.Supplier, error) {
	var list []models.Supplier
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	return list, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Supplier, error) {
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

func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) error {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return fmt.Errorf("creating supplier: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, supplier *models.Supplier) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(supplier).Error; err != nil {
		return fmt.Errorf("saving supplier: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Supplier{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("deleting supplier %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}
