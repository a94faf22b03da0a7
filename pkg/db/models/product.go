package models

import "time"

// Product is a consigned item. The supplier reference is optional and cleared
// (not cascaded) when the supplier is deleted.
type Product struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	Name       string    `gorm:"column:nome;not null" json:"nome"`
	SellPrice  float64   `gorm:"column:preco_venda;not null" json:"preco_venda"`
	SupplierID *uint     `gorm:"column:fornecedor_id" json:"fornecedorId"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"Fornecedor,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string { return "produtos" }
