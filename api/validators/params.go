package validators

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
)

// UintParam reads a chi URL parameter as an unsigned integer id.
func UintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Parâmetro %q ausente", name))
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Parâmetro %q inválido", name))
	}
	return uint(value), nil
}
