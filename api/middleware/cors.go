package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware with the back-office's open origin policy. The
// admin dashboard and the public site are served from changing hosts, so the
// API accepts any origin.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}).Handler
}
