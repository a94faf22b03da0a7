package settlements

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
)

// Repository is the persistence layer for settlements.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &Repository{db: db}, nil
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindPendingBySupplier returns the supplier's open settlement, or nil when
// none exists.
func (r *Repository) FindPendingBySupplier(ctx context.Context, supplierID uint) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).
		Where("fornecedor_id = ? AND status = ?", supplierID, models.SettlementPending).
		Order("id DESC").
		First(&settlement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding pending settlement: %w", err)
	}
	return &settlement, nil
}

func (r *Repository) Create(ctx context.Context, settlement *models.Settlement) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(settlement).Error; err != nil {
		return fmt.Errorf("creating settlement: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, settlement *models.Settlement) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(settlement).Error; err != nil {
		return fmt.Errorf("saving settlement: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		First(&settlement, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding settlement %d: %w", id, err)
	}
	return &settlement, nil
}

// ListPending returns every open settlement, newest id first.
func (r *Repository) ListPending(ctx context.Context) ([]models.Settlement, error) {
	var list []models.Settlement
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("status = ?", models.SettlementPending).
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending settlements: %w", err)
	}
	return list, nil
}

// ListRecent returns the latest settlements regardless of status.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Settlement, error) {
	var list []models.Settlement
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Order("data_inicio DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing recent settlements: %w", err)
	}
	return list, nil
}

// FindLatestReceived returns the most recently received settlement, or nil.
func (r *Repository) FindLatestReceived(ctx context.Context) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SettlementReceived).
		Order("data_recebimento DESC").
		First(&settlement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest received settlement: %w", err)
	}
	return &settlement, nil
}
