package settlements

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
)

// Engine keeps each supplier's open settlement in sync with sale mutations.
// Every sale create/update/delete flows through here so total_vendido and
// valor_comissao never drift from the recorded sales.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) (*Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &Engine{db: db}, nil
}

// WithTx returns an engine bound to the given transaction. Sale mutations run
// the engine inside the same transaction as the sale row itself.
func (e *Engine) WithTx(tx *gorm.DB) *Engine {
	return &Engine{db: tx}
}

// ObtainOrCreate returns the supplier's open settlement, creating one when
// none exists. The commission percent is snapshotted from the supplier at
// creation time. A nil or dangling supplier id yields (nil, nil): sales of
// supplier-less products simply do not settle.
func (e *Engine) ObtainOrCreate(ctx context.Context, supplierID *uint) (*models.Settlement, error) {
	if supplierID == nil {
		return nil, nil
	}

	repo := Repository{db: e.db}
	existing, err := repo.FindPendingBySupplier(ctx, *supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar acerto pendente")
	}
	if existing != nil {
		return existing, nil
	}

	var supplier models.Supplier
	err = e.db.WithContext(ctx).First(&supplier, *supplierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar fornecedor")
	}

	settlement := &models.Settlement{
		SupplierID:        supplier.ID,
		PeriodStart:       time.Now(),
		CommissionPercent: supplier.CommissionPercent,
		Status:            models.SettlementPending,
	}
	if err := repo.Create(ctx, settlement); err != nil {
		// A concurrent request may have created the pending settlement first;
		// the partial unique index rejects the duplicate and we reuse theirs.
		// On postgres the violation aborts the surrounding transaction, so
		// inside one the re-read fails as well and the whole request errors.
		// That still leaves a single pending settlement, and the client's
		// replay queue retries against the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, findErr := repo.FindPendingBySupplier(ctx, *supplierID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, findErr, "Erro ao consultar acerto pendente")
			}
			if winner != nil {
				return winner, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao criar acerto")
	}
	return settlement, nil
}

// Accrue adds a sale amount to the settlement and recomputes the commission.
// A nil settlement is a no-op.
func (e *Engine) Accrue(ctx context.Context, settlement *models.Settlement, amount float64) error {
	if settlement == nil {
		return nil
	}
	settlement.TotalSold += amount
	settlement.CommissionValue = commission(settlement.TotalSold, settlement.CommissionPercent)

	repo := Repository{db: e.db}
	if err := repo.Save(ctx, settlement); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar acerto")
	}
	return nil
}

// PendingFor returns the supplier's open settlement without creating one.
// Nil supplier ids and suppliers with nothing pending both yield nil.
func (e *Engine) PendingFor(ctx context.Context, supplierID *uint) (*models.Settlement, error) {
	if supplierID == nil {
		return nil, nil
	}

	repo := Repository{db: e.db}
	settlement, err := repo.FindPendingBySupplier(ctx, *supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar acerto pendente")
	}
	return settlement, nil
}

// Reverse subtracts a sale amount from the settlement, clamping at zero so
// drift or out-of-order corrections never push the accrual negative. A nil
// settlement is a no-op.
func (e *Engine) Reverse(ctx context.Context, settlement *models.Settlement, amount float64) error {
	if settlement == nil {
		return nil
	}
	settlement.TotalSold = math.Max(0, settlement.TotalSold-amount)
	settlement.CommissionValue = commission(settlement.TotalSold, settlement.CommissionPercent)

	repo := Repository{db: e.db}
	if err := repo.Save(ctx, settlement); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar acerto")
	}
	return nil
}

func commission(totalSold, percent float64) float64 {
	return totalSold * percent / 100
}
