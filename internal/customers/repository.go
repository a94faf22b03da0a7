package customers

import (
	"context"
	"errors"
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

func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	var list []models.Customer
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return list, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding customer %d: %w", id, err)
	}
	return &customer, nil
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("creating customer: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("saving customer: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("deleting customer %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteBlank removes customers whose name is empty or whitespace.
func (r *Repository) DeleteBlank(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("TRIM(nome) = ''").
		Delete(&models.Customer{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting blank customers: %w", result.Error)
	}
	return result.RowsAffected, nil
}
