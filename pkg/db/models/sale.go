package models

import "time"

// Sale snapshots valor_total at sale time; later product price edits do not
// flow back into recorded sales.
type Sale struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	ProductID  uint      `gorm:"column:produto_id;not null" json:"produtoId"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"Produto,omitempty"`
	CustomerID *uint     `gorm:"column:cliente_id" json:"clienteId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"Cliente,omitempty"`
	Quantity   int       `gorm:"column:quantidade;not null" json:"quantidade"`
	TotalValue float64   `gorm:"column:valor_total;not null" json:"valor_total"`
	SoldAt     time.Time `gorm:"column:data_venda;not null" json:"data_venda"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Sale) TableName() string { return "vendas" }
