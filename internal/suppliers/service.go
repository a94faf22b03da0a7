package suppliers

import (
	"context"
	"fmt"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

const defaultCommissionPercent = 30

// CreateSupplierInput carries the supplier fields accepted from clients.
type CreateSupplierInput struct {
	Name              string   `json:"nome" validate:"required"`
	Phone             *string  `json:"telefone"`
	Contact           *string  `json:"contato"`
	CommissionPercent *float64 `json:"percentual_comissao" validate:"omitempty,gte=0,lte=100"`
}

// UpdateSupplierInput applies only the fields present in the request body.
type UpdateSupplierInput struct {
	Name              *string  `json:"nome" validate:"omitempty,min=1"`
	Phone             *string  `json:"telefone"`
	Contact           *string  `json:"contato"`
	CommissionPercent *float64 `json:"percentual_comissao" validate:"omitempty,gte=0,lte=100"`
}

type Service interface {
	List(ctx context.Context) ([]models.Supplier, error)
	Get(ctx context.Context, id uint) (*models.Supplier, error)
	Create(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	Update(ctx context.Context, id uint, input UpdateSupplierInput) (*models.Supplier, error)
	Delete(ctx context.Context, id uint) error
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

func (s *service) List(ctx context.Context) ([]models.Supplier, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao listar fornecedores")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar fornecedor")
	}
	if supplier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Fornecedor não encontrado")
	}
	return supplier, nil
}

func (s *service) Create(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	supplier := &models.Supplier{
		Name:              input.Name,
		Phone:             input.Phone,
		Contact:           input.Contact,
		CommissionPercent: defaultCommissionPercent,
	}
	if input.CommissionPercent != nil {
		supplier.CommissionPercent = *input.CommissionPercent
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao criar fornecedor")
	}
	s.logg.Info(s.logg.WithField(ctx, "fornecedor_id", supplier.ID), "supplier created")
	return supplier, nil
}

// Update edits the supplier record only. Commission changes do not touch
// already open settlements, which keep the percent captured at creation.
func (s *service) Update(ctx context.Context, id uint, input UpdateSupplierInput) (*models.Supplier, error) {
	supplier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Contact != nil {
		supplier.Contact = input.Contact
	}
	if input.CommissionPercent != nil {
		supplier.CommissionPercent = *input.CommissionPercent
	}

	if err := s.repo.Save(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar fornecedor")
	}
	return supplier, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao excluir fornecedor")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Fornecedor não encontrado")
	}
	s.logg.Info(s.logg.WithField(ctx, "fornecedor_id", id), "supplier deleted")
	return nil
}
