package settlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

// Service exposes the settlement read and lifecycle operations.
type Service interface {
	ListPending(ctx context.Context) ([]models.Settlement, error)
	Receive(ctx context.Context, id uint) (*models.Settlement, error)
	Reopen(ctx context.Context, id uint) (*models.Settlement, error)
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

// ListPending returns at most one open settlement per supplier. Data imported
// from before the unique index may hold duplicates; the one with the highest
// id wins.
func (s *service) ListPending(ctx context.Context) ([]models.Settlement, error) {
	all, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao listar acertos")
	}

	seen := make(map[uint]bool, len(all))
	deduped := make([]models.Settlement, 0, len(all))
	for _, settlement := range all {
		if seen[settlement.SupplierID] {
			continue
		}
		seen[settlement.SupplierID] = true
		deduped = append(deduped, settlement)
	}
	return deduped, nil
}

// Receive marks a settlement as paid out, closing its period.
func (s *service) Receive(ctx context.Context, id uint) (*models.Settlement, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar acerto")
	}
	if settlement == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Acerto não encontrado")
	}

	now := time.Now()
	settlement.Status = models.SettlementReceived
	settlement.PeriodEnd = &now
	settlement.ReceivedAt = &now

	if err := s.repo.Save(ctx, settlement); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar acerto")
	}

	s.logg.Info(s.logg.WithField(ctx, "acerto_id", settlement.ID), "settlement received")
	return settlement, nil
}

// Reopen reverts a received settlement back to pending, so a mistaken
// "receive" click can be undone.
func (s *service) Reopen(ctx context.Context, id uint) (*models.Settlement, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar acerto")
	}
	if settlement == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Acerto não encontrado")
	}
	if settlement.Status != models.SettlementReceived {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Só é possível reabrir um acerto já marcado como recebido")
	}

	settlement.Status = models.SettlementPending
	settlement.PeriodEnd = nil
	settlement.ReceivedAt = nil

	if err := s.repo.Save(ctx, settlement); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Já existe um acerto pendente para este fornecedor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar acerto")
	}

	s.logg.Info(s.logg.WithField(ctx, "acerto_id", settlement.ID), "settlement reopened")
	return settlement, nil
}
