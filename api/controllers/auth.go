package controllers

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/middleware"
	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/api/validators"
	"github.com/anamartins/controledoces-backend/internal/auth"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

type AuthController struct {
	service auth.Service
	logg    *logger.Logger
}

func NewAuthController(service auth.Service, logg *logger.Logger) (*AuthController, error) {
	if service == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &AuthController{service: service, logg: logg}, nil
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.service.Register(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteJSON(w, http.StatusCreated, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.service.Login(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func (c *AuthController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeUnauthorized, "Token não fornecido"))
		return
	}

	var input auth.UpdatePasswordInput
	if err := validators.DecodeJSONBody(w, r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.service.UpdatePassword(r.Context(), userID, input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]bool{"sucesso": true})
}
