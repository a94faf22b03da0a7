package sales

import (
	"encoding/json"
	"time"

	"github.com/anamartins/controledoces-backend/pkg/db/models"
)

// OptionalUint distinguishes an absent field from an explicit null. A sale
// update with "clienteId": null detaches the customer, while omitting the
// field keeps the current one.
type OptionalUint struct {
	Present bool
	Value   *uint
}

func (o *OptionalUint) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var value uint
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

type CreateSaleInput struct {
	ProductID  uint       `json:"produtoId" validate:"required"`
	CustomerID *uint      `json:"clienteId"`
	Quantity   int        `json:"quantidade" validate:"required,gt=0"`
	SoldAt     *time.Time `json:"data_venda"`
}

type UpdateSaleInput struct {
	ProductID  *uint        `json:"produtoId"`
	CustomerID OptionalUint `json:"clienteId"`
	Quantity   *int         `json:"quantidade" validate:"omitempty,gt=0"`
	SoldAt     *time.Time   `json:"data_venda"`
}

// MutationResult pairs the affected sale with the settlement the mutation
// touched, so the client can refresh both screens from one response.
type MutationResult struct {
	Sale       *models.Sale       `json:"venda"`
	Settlement *models.Settlement `json:"acerto_atualizado"`
}
