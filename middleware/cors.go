package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the listed origins to call the API. Tokens travel in the
// Authorization header, so credentialed requests are not enabled.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}).Handler(next)
}
