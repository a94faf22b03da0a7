package controllers

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/internal/dashboard"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type DashboardController struct {
	service dashboard.Service
	logg    *logger.Logger
}

func NewDashboardController(service dashboard.Service, logg *logger.Logger) (*DashboardController, error) {
	if service == nil {
		return nil, fmt.Errorf("dashboard service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &DashboardController{service: service, logg: logg}, nil
}

func (c *DashboardController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.Summary(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, summary)
}
