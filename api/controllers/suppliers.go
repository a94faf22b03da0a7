package controllers

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/api/validators"
	"github.com/anamartins/controledoces-backend/internal/suppliers"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type SuppliersController struct {
	service suppliers.Service
	logg    *logger.Logger
}

func NewSuppliersController(service suppliers.Service, logg *logger.Logger) (*SuppliersController, error) {
	if service == nil {
		return nil, fmt.Errorf("suppliers service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &SuppliersController{service: service, logg: logg}, nil
}

func (c *SuppliersController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *SuppliersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	supplier, err := c.service.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, supplier)
}

func (c *SuppliersController) Create(w http.ResponseWriter, r *http.Request) {
	var input suppliers.CreateSupplierInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	supplier, err := c.service.Create(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteJSON(w, http.StatusCreated, supplier)
}

func (c *SuppliersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input suppliers.UpdateSupplierInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	supplier, err := c.service.Update(r.Context(), id, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, supplier)
}

func (c *SuppliersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]bool{"ok": true})
}
