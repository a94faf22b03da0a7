package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/anamartins/controledoces-backend/internal/settlements"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

const recentSettlementsLimit = 5

// Summary is the home screen payload: entity counts, lifetime revenue and
// the current commission owed across all suppliers.
type Summary struct {
	TotalSuppliers           int64               `json:"totalFornecedores"`
	TotalCustomers           int64               `json:"totalClientes"`
	TotalProducts            int64               `json:"totalProdutos"`
	TotalSales               int64               `json:"totalVendas"`
	TotalRevenue             float64             `json:"totalVendido"`
	PendingCommission        float64             `json:"totalComissaoPendente"`
	PendingSettlementID      *uint               `json:"acertoPendenteId"`
	SettlementStatus         string              `json:"statusAcertos"`
	LastReceivedSettlementID *uint               `json:"ultimoAcertoRecebidoId"`
	RecentSettlements        []models.Settlement `json:"acertosRecentes"`
}

const (
	settlementStatusPending = "PENDENTE"
	settlementStatusNone    = "NENHUM_PENDENTE"
)

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo        *Repository
	settlements settlements.Service
	history     *settlements.Repository
	logg        *logger.Logger
}

func NewService(
	repo *Repository,
	settlementsSvc settlements.Service,
	history *settlements.Repository,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if settlementsSvc == nil {
		return nil, fmt.Errorf("settlements service is required")
	}
	if history == nil {
		return nil, fmt.Errorf("settlements repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, settlements: settlementsSvc, history: history, logg: logg}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{SettlementStatus: settlementStatusNone}

	var err error
	if summary.TotalSuppliers, err = s.repo.CountSuppliers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao montar o resumo")
	}
	if summary.TotalCustomers, err = s.repo.CountCustomers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao montar o resumo")
	}
	if summary.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao montar o resumo")
	}
	if summary.TotalSales, err = s.repo.CountSales(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao montar o resumo")
	}
	if summary.TotalRevenue, err = s.repo.SumSalesTotal(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao montar o resumo")
	}

	pending, err := s.settlements.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	// Commission is recomputed from total_vendido instead of trusting the
	// stored valor_comissao, so a drifted row cannot skew the headline number.
	var commission float64
	for _, settlement := range pending {
		commission += settlement.TotalSold * settlement.CommissionPercent / 100
	}
	summary.PendingCommission = round2(commission)

	// Pending-ness is judged on the raw sum: a sub-half-cent commission still
	// counts even though the displayed value rounds to zero.
	if commission > 0 {
		id := pending[0].ID
		summary.PendingSettlementID = &id
		summary.SettlementStatus = settlementStatusPending
	} else {
		// Nothing owed: surface the last received settlement so the client can
		// offer to reopen it.
		lastReceived, err := s.history.FindLatestReceived(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao montar o resumo")
		}
		if lastReceived != nil {
			id := lastReceived.ID
			summary.LastReceivedSettlementID = &id
		}
	}

	recent, err := s.history.ListRecent(ctx, recentSettlementsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao montar o resumo")
	}
	summary.RecentSettlements = recent

	return summary, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
