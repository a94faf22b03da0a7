package controllers

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/api/validators"
	"github.com/anamartins/controledoces-backend/internal/products"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type ProductsController struct {
	service products.Service
	logg    *logger.Logger
}

func NewProductsController(service products.Service, logg *logger.Logger) (*ProductsController, error) {
	if service == nil {
		return nil, fmt.Errorf("products service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &ProductsController{service: service, logg: logg}, nil
}

func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *ProductsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	product, err := c.service.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, product)
}

func (c *ProductsController) Create(w http.ResponseWriter, r *http.Request) {
	var input products.CreateProductInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	product, err := c.service.Create(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteJSON(w, http.StatusCreated, product)
}

func (c *ProductsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input products.UpdateProductInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	product, err := c.service.Update(r.Context(), id, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, product)
}

func (c *ProductsController) Delete(w http.ResponseWriter, r *http.Request) {
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
