package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

// ErrorBody is the wire shape every failure uses. The web client only ever
// reads the "erro" field.
type ErrorBody struct {
	Erro string `json:"erro"`
}

const maxErrorMessageLen = 200

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteError translates any error into the JSON {erro} envelope, logging the
// full chain. Unknown errors become a bounded 500 message.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := typed.Message()
	if msg == "" || len(msg) > maxErrorMessageLen {
		msg = meta.PublicMessage
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error_code":  string(typed.Code()),
			"http_status": meta.HTTPStatus,
		})
		logg.Error(ctx, "request.error", err)
	}

	WriteJSON(w, meta.HTTPStatus, ErrorBody{Erro: msg})
}
