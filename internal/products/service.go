package products

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type CreateProductInput struct {
	Name       string  `json:"nome" validate:"required"`
	SellPrice  float64 `json:"preco_venda" validate:"required,gt=0"`
	SupplierID *uint   `json:"fornecedorId"`
}

type UpdateProductInput struct {
	Name       *string  `json:"nome" validate:"omitempty,min=1"`
	SellPrice  *float64 `json:"preco_venda" validate:"omitempty,gt=0"`
	SupplierID *uint    `json:"fornecedorId"`
}

type Service interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	ResolveSupplier(ctx context.Context, product *models.Product) (*models.Supplier, error)
	WithTx(tx *gorm.DB) Service
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx), logg: s.logg}
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao listar produtos")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar produto")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:       input.Name,
		SellPrice:  input.SellPrice,
		SupplierID: input.SupplierID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao criar produto")
	}
	s.logg.Info(s.logg.WithField(ctx, "produto_id", product.ID), "product created")
	return product, nil
}

// Update edits the catalog record only. Already recorded sales keep the
// valor_total captured when they were created.
func (s *service) Update(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SellPrice != nil {
		product.SellPrice = *input.SellPrice
	}
	if input.SupplierID != nil {
		product.SupplierID = input.SupplierID
		product.Supplier = nil
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar produto")
	}
	return product, nil
}

// Delete refuses to remove a product with recorded sales: deleting it would
// orphan those rows and silently corrupt settlement history.
func (s *service) Delete(ctx context.Context, id uint) error {
	count, err := s.repo.CountSales(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar vendas do produto")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			"Não é possível excluir: existem vendas vinculadas a este produto. Exclua as vendas primeiro.")
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao excluir produto")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
	}
	s.logg.Info(s.logg.WithField(ctx, "produto_id", id), "product deleted")
	return nil
}

// ResolveSupplier returns the supplier a product's sales settle against.
// Products without a supplier, or whose supplier was deleted, resolve to nil:
// their sales count toward revenue but never settle.
func (s *service) ResolveSupplier(ctx context.Context, product *models.Product) (*models.Supplier, error) {
	if product == nil || product.SupplierID == nil {
		return nil, nil
	}
	if product.Supplier != nil {
		return product.Supplier, nil
	}

	supplier, err := s.repo.FindSupplier(ctx, *product.SupplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar fornecedor")
	}
	return supplier, nil
}
