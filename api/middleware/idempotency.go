package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/anamartins/controledoces-backend/pkg/logger"
	"github.com/anamartins/controledoces-backend/pkg/redis"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// storedResponse is the cached outcome replayed on a duplicate submission.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating requests. Offline clients resubmit queued mutations on reconnect,
// and without this guard a retried sale would accrue twice.
//
// When store is nil (no Redis configured) requests pass straight through.
func Idempotency(store redis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			redisKey := store.IdempotencyKey(r.Method+":"+r.URL.Path, key)
			if cached, err := store.Get(r.Context(), redisKey); err == nil {
				var stored storedResponse
				if json.Unmarshal([]byte(cached), &stored) == nil {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Idempotent-Replay", "true")
					w.WriteHeader(stored.Status)
					_, _ = w.Write(stored.Body)
					return
				}
			} else if !errors.Is(err, goredis.Nil) {
				// Redis being down must not block mutations.
				logg.Warn(r.Context(), "idempotency store unavailable, passing through")
				next.ServeHTTP(w, r)
				return
			}

			recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if recorder.status < 500 {
				payload, err := json.Marshal(storedResponse{Status: recorder.status, Body: recorder.body.Bytes()})
				if err == nil {
					if _, err := store.SetNX(r.Context(), redisKey, string(payload), ttl); err != nil {
						logg.Warn(r.Context(), "failed to store idempotent response")
					}
				}
			}
		})
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

type responseRecorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
