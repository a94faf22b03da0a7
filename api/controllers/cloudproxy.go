package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/anamartins/controledoces-backend/api/responses"
	"github.com/anamartins/controledoces-backend/pkg/config"
	pkgerrors "github.com/anamartins/controledoces-backend/pkg/errors"
	"github.com/anamartins/controledoces-backend/pkg/logger"
)

// CloudProxyController forwards every request to a cloud deployment. The
// desktop install runs in this mode so the local client keeps a single base
// URL while the data lives remotely. Free-tier hosts sleep between requests,
// hence the generous timeout and the dedicated 504 message.
type CloudProxyController struct {
	upstream *url.URL
	client   *http.Client
	logg     *logger.Logger
}

func NewCloudProxyController(cfg config.CloudProxyConfig, logg *logger.Logger) (*CloudProxyController, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("cloud proxy url is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	upstream, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing cloud url: %w", err)
	}

	return &CloudProxyController{
		upstream: upstream,
		client:   &http.Client{Timeout: cfg.Timeout},
		logg:     logg,
	}, nil
}

func (c *CloudProxyController) Proxy(w http.ResponseWriter, r *http.Request) {
	target := *c.upstream
	target.Path = strings.TrimRight(target.Path, "/") + r.URL.Path
	target.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao montar requisição para a nuvem"))
		return
	}

	copyProxyHeaders(req.Header, r.Header)

	resp, err := c.client.Do(req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, classifyUpstreamError(err))
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		c.logg.Warn(r.Context(), "proxy response copy interrupted")
	}
}

// copyProxyHeaders forwards client headers except hop-by-hop and
// browser-origin ones, which would trip the upstream's CORS handling.
func copyProxyHeaders(dst, src http.Header) {
	for key, values := range src {
		switch http.CanonicalHeaderKey(key) {
		case "Origin", "Referer", "Host", "Connection", "Keep-Alive", "Te", "Trailer", "Transfer-Encoding", "Upgrade":
			continue
		}
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

func classifyUpstreamError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return pkgerrors.Wrap(pkgerrors.CodeUpstreamTimeout, err,
			"A nuvem demorou para responder. No plano gratuito pode levar 1 minuto — tente de novo.")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeUpstreamTimeout, err,
			"A nuvem demorou para responder. No plano gratuito pode levar 1 minuto — tente de novo.")
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstreamUnreachable, err,
		"Não foi possível conectar à nuvem. Tente novamente.")
}
