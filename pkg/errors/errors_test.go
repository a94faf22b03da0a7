package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, MetadataFor(CodeUnauthorized).HTTPStatus)
	assert.Equal(t, http.StatusGatewayTimeout, MetadataFor(CodeUpstreamTimeout).HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, MetadataFor(CodeUpstreamUnreachable).HTTPStatus)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
	assert.True(t, meta.Retryable)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Wrap(CodeStorage, cause, "salvar venda")

	require.NotNil(t, err)
	assert.Equal(t, CodeStorage, err.Code())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsNestedError(t *testing.T) {
	inner := New(CodeNotFound, "Venda não encontrada")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
	assert.Equal(t, "Venda não encontrada", typed.Message())

	assert.Nil(t, As(fmt.Errorf("plain")))
	assert.Nil(t, As(nil))
}
