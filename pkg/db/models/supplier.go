package models

import "time"

// Supplier owns consigned products and accumulates settlements.
type Supplier struct {
	ID                uint      `gorm:"column:id;primaryKey" json:"id"`
	Name              string    `gorm:"column:nome;not null" json:"nome"`
	Phone             *string   `gorm:"column:telefone" json:"telefone"`
	Contact           *string   `gorm:"column:contato" json:"contato"`
	CommissionPercent float64   `gorm:"column:percentual_comissao;not null;default:30" json:"percentual_comissao"`
	Products          []Product `gorm:"foreignKey:SupplierID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Supplier) TableName() string { return "fornecedores" }
