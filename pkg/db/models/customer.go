package models

import "time"

type Customer struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:nome;not null" json:"nome"`
	Phone     *string   `gorm:"column:telefone" json:"telefone"`
	Email     *string   `gorm:"column:email" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Customer) TableName() string { return "clientes" }
