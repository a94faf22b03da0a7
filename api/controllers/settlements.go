package controllers

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/api/validators"
	"github.com/anamartins/controledoces-backend/internal/settlements"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type SettlementsController struct {
	service settlements.Service
	logg    *logger.Logger
}

func NewSettlementsController(service settlements.Service, logg *logger.Logger) (*SettlementsController, error) {
	if service == nil {
		return nil, fmt.Errorf("settlements service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &SettlementsController{service: service, logg: logg}, nil
}

func (c *SettlementsController) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListPending(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *SettlementsController) Receive(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	settlement, err := c.service.Receive(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, settlement)
}

func (c *SettlementsController) Reopen(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UintParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	settlement, err := c.service.Reopen(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, settlement)
}
