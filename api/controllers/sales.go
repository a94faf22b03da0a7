package controllers

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/api/validators"
	"github.com/anamartins/controledoces-backend/internal/sales"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type SalesController struct {
	service sales.Service
	logg    *logger.Logger
}

func NewSalesController(service sales.Service, logg *logger.Logger) (*SalesController, error) {
	if service == nil {
		return nil, fmt.Errorf("sales service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &SalesController{service: service, logg: logg}, nil
}

func (c *SalesController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *SalesController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	sale, err := c.service.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, sale)
}

func (c *SalesController) Create(w http.ResponseWriter, r *http.Request) {
	var input sales.CreateSaleInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	result, err := c.service.Create(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteJSON(w, http.StatusCreated, result)
}

func (c *SalesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input sales.UpdateSaleInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	result, err := c.service.Update(r.Context(), id, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result.Sale)
}

func (c *SalesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if _, err := c.service.Delete(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]bool{"ok": true})
}
