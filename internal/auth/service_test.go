package auth

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anamartins/controledoces-backend/internal/users"
	pkgauth "github.com/anamartins/controledoces-backend/pkg/auth"
	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/db/models"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
	"github.com/anamartins/controledoces-backend/pkg/security"
)

var (
	testJWT      = config.JWTConfig{Secret: "segredo-de-teste", Issuer: "controle-doces", ExpirationMinutes: 60}
	testPassword = config.PasswordConfig{BcryptCost: 4}
)

func newTestService(t *testing.T) (Service, *users.Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))

	repo, err := users.NewRepository(conn)
	require.NoError(t, err)
	svc, err := NewService(repo, testJWT, testPassword, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return svc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "Ana@Controle.com", Password: "Senha@123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@controle.com", user.Email)
	assert.NotEqual(t, "Senha@123", user.PasswordHash)

	result, err := svc.Login(ctx, LoginInput{Email: "ana@controle.com", Password: "Senha@123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)

	claims, err := pkgauth.ParseAccessToken(testJWT, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: " ", Email: "a@b.com", Password: "Senha@123"})
	requireValidation(t, err, "Preencha nome, email e senha")

	_, err = svc.Register(ctx, RegisterInput{Name: "Ana", Email: "a@b.com", Password: "123"})
	requireValidation(t, err, "A senha deve ter pelo menos 6 caracteres")

	_, err = svc.Register(ctx, RegisterInput{Name: "Ana", Email: "a@b.com", Password: "senha@123"})
	requireValidation(t, err, "A senha deve conter pelo menos uma letra maiúscula")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@controle.com", Password: "Senha@123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Outra", Email: "ANA@controle.com", Password: "Senha@123"})
	requireValidation(t, err, "Email já cadastrado")
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@controle.com", Password: "Senha@123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "ninguem@controle.com", Password: "Senha@123"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, "Usuário não encontrado. Verifique o email ou cadastre-se.", typed.Message())

	_, err = svc.Login(ctx, LoginInput{Email: "ana@controle.com", Password: "errada"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, `Senha incorreta. Tente novamente ou use "Mudar Senha".`, typed.Message())
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@controle.com", Password: "Senha@123"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, UpdatePasswordInput{Password: "NovaSenha@9"}))

	_, err = svc.Login(ctx, LoginInput{Email: "ana@controle.com", Password: "Senha@123"})
	require.Error(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "ana@controle.com", Password: "NovaSenha@9"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, UpdatePasswordInput{Password: "fraca"})
	requireValidation(t, err, "A senha deve ter pelo menos 6 caracteres")
}

func TestEnsureDefaultAdmin(t *testing.T) {
	_, repo := newTestService(t)
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	require.NoError(t, EnsureDefaultAdmin(ctx, repo, testPassword, logg))

	admin, err := repo.FindByEmail(ctx, "admin@controle.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, security.VerifyPassword("123456", admin.PasswordHash))

	// Idempotent, and never runs once any user exists.
	require.NoError(t, EnsureDefaultAdmin(ctx, repo, testPassword, logg))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, message, typed.Message())
}
