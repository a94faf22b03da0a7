package controllers

import (
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/pkg/db"
)

type HealthController struct {
	pinger db.Pinger
}

func NewHealthController(pinger db.Pinger) *HealthController {
	return &HealthController{pinger: pinger}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	if c.pinger != nil {
		if err := c.pinger.Ping(r.Context()); err != nil {
			responses.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}
