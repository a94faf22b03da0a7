package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anamartins/controledoces-backend/internal/users"
	pkgauth "github.com/anamartins/controledoces-backend/pkg/auth"
	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
	"github.com/anamartins/controledoces-backend/pkg/security"
)

type RegisterInput struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type UpdatePasswordInput struct {
	Password string `json:"senha"`
}

// LoginResult mirrors the token payload the web client stores.
type LoginResult struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	UpdatePassword(ctx context.Context, userID uint, input UpdatePasswordInput) error
}

type service struct {
	repo        *users.Repository
	jwtConfig   config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

func NewService(
	repo *users.Repository,
	jwtConfig config.JWTConfig,
	passwordCfg config.PasswordConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, jwtConfig: jwtConfig, passwordCfg: passwordCfg, logg: logg}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := input.Password

	if name == "" || email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Preencha nome, email e senha")
	}
	if msg := security.ValidatePasswordStrength(password); msg != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msg)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar usuário")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email já cadastrado")
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao processar senha")
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao criar usuário")
	}

	s.logg.Info(s.logg.WithField(ctx, "usuario_id", user.ID), "user registered")
	return user, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Informe email e senha")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar usuário")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Usuário não encontrado. Verifique o email ou cadastre-se.")
	}
	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, `Senha incorreta. Tente novamente ou use "Mudar Senha".`)
	}

	token, err := pkgauth.MintAccessToken(s.jwtConfig, time.Now(), user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao gerar token")
	}

	s.logg.Info(s.logg.WithUserID(ctx, fmt.Sprint(user.ID)), "user logged in")
	return &LoginResult{Token: token, UserID: user.ID}, nil
}

func (s *service) UpdatePassword(ctx context.Context, userID uint, input UpdatePasswordInput) error {
	if msg := security.ValidatePasswordStrength(input.Password); msg != "" {
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao consultar usuário")
	}
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Usuário não encontrado")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao processar senha")
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "Erro ao atualizar senha")
	}

	s.logg.Info(s.logg.WithUserID(ctx, fmt.Sprint(userID)), "password updated")
	return nil
}
