package sales

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/internal/products"
	"github.com/anamartins/controledoces-backend/internal/settlements"
	"github.com/anamartins/controledoces-backend/pkg/db"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

// Service orchestrates the sale lifecycle. Every mutation runs the sale row
// and its settlement adjustment inside one transaction, so a crash mid-way
// can never leave a sale counted without its commission (or vice versa).
type Service interface {
	List(ctx context.Context) ([]models.Sale, error)
	Get(ctx context.Context, id uint) (*models.Sale, error)
	Create(ctx context.Context, input CreateSaleInput) (*MutationResult, error)
	Update(ctx context.Context, id uint, input UpdateSaleInput) (*MutationResult, error)
	Delete(ctx context.Context, id uint) (*MutationResult, error)
}

type service struct {
	client  *db.Client
	repo    *Repository
	catalog products.Service
	engine  *settlements.Engine
	logg    *logger.Logger
}

func NewService(
	client *db.Client,
	repo *Repository,
	catalog products.Service,
	engine *settlements.Engine,
	logg *logger.Logger,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("accrual engine is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{client: client, repo: repo, catalog: catalog, engine: engine, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]models.Sale, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao listar vendas")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar venda")
	}
	if sale == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Venda não encontrada")
	}
	return sale, nil
}

func (s *service) Create(ctx context.Context, input CreateSaleInput) (*MutationResult, error) {
	var result *MutationResult

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalog := s.catalog.WithTx(tx)
		engine := s.engine.WithTx(tx)

		product, err := catalog.Get(ctx, input.ProductID)
		if err != nil {
			return asProductReferenceError(err)
		}
		supplier, err := catalog.ResolveSupplier(ctx, product)
		if err != nil {
			return err
		}

		soldAt := time.Now()
		if input.SoldAt != nil {
			soldAt = *input.SoldAt
		}

		sale := &models.Sale{
			ProductID:  product.ID,
			CustomerID: input.CustomerID,
			Quantity:   input.Quantity,
			TotalValue: product.SellPrice * float64(input.Quantity),
			SoldAt:     soldAt,
		}
		if err := repo.Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao registrar venda")
		}

		settlement, err := engine.ObtainOrCreate(ctx, supplierRef(supplier))
		if err != nil {
			return err
		}
		if err := engine.Accrue(ctx, settlement, sale.TotalValue); err != nil {
			return err
		}

		sale.Product = product
		result = &MutationResult{Sale: sale, Settlement: settlement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "venda_id", result.Sale.ID), "sale created")
	return result, nil
}

// Update rebuilds the sale as if it had been entered correctly: the old
// amount is reversed from the old supplier's open settlement, the total is
// recomputed from the (possibly new) product's current price, and the new
// amount accrues to the new supplier's settlement.
func (s *service) Update(ctx context.Context, id uint, input UpdateSaleInput) (*MutationResult, error) {
	var result *MutationResult

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalog := s.catalog.WithTx(tx)
		engine := s.engine.WithTx(tx)

		sale, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar venda")
		}
		if sale == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Venda não encontrada")
		}

		oldSupplier, err := catalog.ResolveSupplier(ctx, sale.Product)
		if err != nil {
			return err
		}
		oldSettlement, err := engine.PendingFor(ctx, supplierRef(oldSupplier))
		if err != nil {
			return err
		}
		if err := engine.Reverse(ctx, oldSettlement, sale.TotalValue); err != nil {
			return err
		}

		product := sale.Product
		if input.ProductID != nil {
			product, err = catalog.Get(ctx, *input.ProductID)
			if err != nil {
				return asProductReferenceError(err)
			}
			sale.ProductID = product.ID
		} else if product == nil {
			product, err = catalog.Get(ctx, sale.ProductID)
			if err != nil {
				return asProductReferenceError(err)
			}
		}

		if input.Quantity != nil {
			sale.Quantity = *input.Quantity
		}
		if input.CustomerID.Present {
			sale.CustomerID = input.CustomerID.Value
			sale.Customer = nil
		}
		if input.SoldAt != nil {
			sale.SoldAt = *input.SoldAt
		}
		sale.TotalValue = product.SellPrice * float64(sale.Quantity)

		if err := repo.Save(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar venda")
		}

		newSupplier, err := catalog.ResolveSupplier(ctx, product)
		if err != nil {
			return err
		}
		settlement, err := engine.ObtainOrCreate(ctx, supplierRef(newSupplier))
		if err != nil {
			return err
		}
		if err := engine.Accrue(ctx, settlement, sale.TotalValue); err != nil {
			return err
		}

		sale.Product = product
		result = &MutationResult{Sale: sale, Settlement: settlement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "venda_id", id), "sale updated")
	return result, nil
}

// Delete removes the sale and backs its amount out of the supplier's open
// settlement.
func (s *service) Delete(ctx context.Context, id uint) (*MutationResult, error) {
	var result *MutationResult

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalog := s.catalog.WithTx(tx)
		engine := s.engine.WithTx(tx)

		sale, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar venda")
		}
		if sale == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Venda não encontrada")
		}

		supplier, err := catalog.ResolveSupplier(ctx, sale.Product)
		if err != nil {
			return err
		}
		settlement, err := engine.PendingFor(ctx, supplierRef(supplier))
		if err != nil {
			return err
		}
		if err := engine.Reverse(ctx, settlement, sale.TotalValue); err != nil {
			return err
		}

		if _, err := repo.Delete(ctx, sale.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao excluir venda")
		}

		result = &MutationResult{Sale: sale, Settlement: settlement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "venda_id", id), "sale deleted")
	return result, nil
}

func supplierRef(supplier *models.Supplier) *uint {
	if supplier == nil {
		return nil
	}
	return &supplier.ID
}

// asProductReferenceError downgrades a missing product to a validation error:
// the sale payload referenced a product that does not exist.
func asProductReferenceError(err error) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
		return pkgerrors.New(pkgerrors.CodeValidation, "Produto não encontrado")
	}
	return err
}
