package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anamartins/controledoces-backend/pkg/config"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

func proxyLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestProxyForwardsRequestAndResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vendas", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Origin"))
		assert.Empty(t, r.Header.Get("Referer"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"quantidade":1}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"venda":{"id":1}}`))
	}))
	defer upstream.Close()

	proxy, err := NewCloudProxyController(config.CloudProxyConfig{URL: upstream.URL, Timeout: 5 * time.Second}, proxyLogger())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/vendas", strings.NewReader(`{"quantidade":1}`))
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Referer", "http://localhost:5500/index.html")
	rec := httptest.NewRecorder()

	proxy.Proxy(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"venda":{"id":1}}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestProxyTimeoutBecomes504(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer upstream.Close()

	proxy, err := NewCloudProxyController(config.CloudProxyConfig{URL: upstream.URL, Timeout: 20 * time.Millisecond}, proxyLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.Proxy(rec, httptest.NewRequest(http.MethodGet, "/dashboard/resumo", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "A nuvem demorou para responder")
}

func TestProxyUnreachableBecomes502(t *testing.T) {
	// A closed port: nothing is listening there.
	proxy, err := NewCloudProxyController(config.CloudProxyConfig{URL: "http://127.0.0.1:1", Timeout: time.Second}, proxyLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.Proxy(rec, httptest.NewRequest(http.MethodGet, "/vendas", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Não foi possível conectar à nuvem")
}
