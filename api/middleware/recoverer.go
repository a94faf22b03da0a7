package middleware

import (
	"fmt"
	"net/http"

	"github.com/anamartins/controledoces-backend/api/responses"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

// Recoverer converts panics into JSON 500 responses instead of killing the
// connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := pkgerrors.Wrap(
						pkgerrors.CodeInternal,
						fmt.Errorf("panic: %v", rec),
						"Erro interno. Tente novamente.",
					)
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
