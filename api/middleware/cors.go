package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
)

// CORS lets the configured storefront origins call the RPC surface with
// credentials. Only POST carries RPC calls; GET serves health checks.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			IdempotencyHeader, requestIDHeader, "X-Requested-With",
		},
		ExposedHeaders:   []string{requestIDHeader, replayedHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	return cors.Handler(opts)
}
