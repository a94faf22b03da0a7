package customers

import (
	"context"
	"fmt"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type CreateCustomerInput struct {
	Name  string  `json:"nome" validate:"required"`
	Phone *string `json:"telefone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type UpdateCustomerInput struct {
	Name  *string `json:"nome" validate:"omitempty,min=1"`
	Phone *string `json:"telefone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type Service interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id uint) (*models.Customer, error)
	Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	Update(ctx context.Context, id uint, input UpdateCustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id uint) error
	PurgeBlank(ctx context.Context) (int64, error)
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

func (s *service) List(ctx context.Context) ([]models.Customer, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao listar clientes")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar cliente")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cliente não encontrado")
	}
	return customer, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao criar cliente")
	}
	s.logg.Info(s.logg.WithField(ctx, "cliente_id", customer.ID), "customer created")
	return customer, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Email != nil {
		customer.Email = input.Email
	}

	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar cliente")
	}
	return customer, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao excluir cliente")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Cliente não encontrado")
	}
	return nil
}

// PurgeBlank drops customers created with an empty name. The offline client
// occasionally flushes half-filled forms, and these rows pollute the listing.
func (s *service) PurgeBlank(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteBlank(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao remover clientes vazios")
	}
	s.logg.Info(s.logg.WithField(ctx, "removidos", removed), "blank customers purged")
	return removed, nil
}
