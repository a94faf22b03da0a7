package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows any origin. The API serves a static web client that may be
// opened from file:// or any local port.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", RequestIDHeader},
		MaxAge:         300,
	})
}
