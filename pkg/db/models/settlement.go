package models

import "time"

// SettlementStatus is the lifecycle state of a settlement period.
type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "PENDENTE"
	SettlementReceived SettlementStatus = "RECEBIDO"
)

// Settlement accumulates a supplier's sold total and owed commission for one
// period. percentual_comissao is captured from the supplier at creation and is
// not live-linked to later supplier edits.
type Settlement struct {
	ID                uint             `gorm:"column:id;primaryKey" json:"id"`
	SupplierID        uint             `gorm:"column:fornecedor_id;not null" json:"fornecedorId"`
	Supplier          *Supplier        `gorm:"foreignKey:SupplierID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"Fornecedor,omitempty"`
	PeriodStart       time.Time        `gorm:"column:data_inicio;not null" json:"data_inicio"`
	PeriodEnd         *time.Time       `gorm:"column:data_fim" json:"data_fim"`
	TotalSold         float64          `gorm:"column:total_vendido;not null;default:0" json:"total_vendido"`
	CommissionPercent float64          `gorm:"column:percentual_comissao;not null" json:"percentual_comissao"`
	CommissionValue   float64          `gorm:"column:valor_comissao;not null;default:0" json:"valor_comissao"`
	Status            SettlementStatus `gorm:"column:status;not null;default:PENDENTE" json:"status"`
	ReceivedAt        *time.Time       `gorm:"column:data_recebimento" json:"data_recebimento"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Settlement) TableName() string { return "acertos" }
