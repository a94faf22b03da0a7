package controllers

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/api/validators"
	"github.com/anamartins/controledoces-backend/internal/customers"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type CustomersController struct {
	service customers.Service
	logg    *logger.Logger
}

func NewCustomersController(service customers.Service, logg *logger.Logger) (*CustomersController, error) {
	if service == nil {
		return nil, fmt.Errorf("customers service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &CustomersController{service: service, logg: logg}, nil
}

func (c *CustomersController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *CustomersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	customer, err := c.service.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, customer)
}

func (c *CustomersController) Create(w http.ResponseWriter, r *http.Request) {
	var input customers.CreateCustomerInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	customer, err := c.service.Create(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteJSON(w, http.StatusCreated, customer)
}

func (c *CustomersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input customers.UpdateCustomerInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	customer, err := c.service.Update(r.Context(), id, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, customer)
}

func (c *CustomersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PurgeBlank removes customers saved with an empty name.
func (c *CustomersController) PurgeBlank(w http.ResponseWriter, r *http.Request) {
	removed, err := c.service.PurgeBlank(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{
		"mensagem": fmt.Sprintf("%d clientes vazios removidos", removed),
	})
}
