package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodyBytes = 1 << 20 // 1 MiB

// DecodeJSONBody decodes the request body into dst and runs struct
// validation. Unknown fields are tolerated so older clients keep working.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, decodeMessage(err))
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Corpo da requisição deve conter um único objeto JSON")
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected validation target")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, validationMessage(err))
	}
	return nil
}

func decodeMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxErr):
		return "JSON malformado"
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("Campo %q com tipo inválido", typeErr.Field)
		}
		return "Corpo da requisição com tipo inválido"
	case errors.As(err, &maxBytesErr):
		return "Corpo da requisição muito grande"
	case errors.Is(err, io.EOF):
		return "Corpo da requisição vazio"
	default:
		return "Não foi possível ler o corpo da requisição"
	}
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Dados inválidos"
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("campo %s é obrigatório", fieldName(fe)))
		case "email":
			parts = append(parts, fmt.Sprintf("campo %s deve ser um email válido", fieldName(fe)))
		case "min":
			parts = append(parts, fmt.Sprintf("campo %s abaixo do mínimo (%s)", fieldName(fe), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("campo %s acima do máximo (%s)", fieldName(fe), fe.Param()))
		case "gt":
			parts = append(parts, fmt.Sprintf("campo %s deve ser maior que %s", fieldName(fe), fe.Param()))
		case "gte":
			parts = append(parts, fmt.Sprintf("campo %s deve ser maior ou igual a %s", fieldName(fe), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("campo %s é inválido", fieldName(fe)))
		}
	}
	return "Dados inválidos: " + strings.Join(parts, "; ")
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "desconhecido"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
