package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/anamartins/controledoces-backend/api/responses"
	pkgauth "github.com/anamartins/controledoces-backend/pkg/auth"
	"github.com/anamartins/controledoces-backend/pkg/config"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

// Auth requires a valid Bearer token and loads the user id onto the context.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "Token não fornecido"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Token inválido"))
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = logg.WithUserID(ctx, fmt.Sprint(claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
