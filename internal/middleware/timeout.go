package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout borne la durée de traitement de chaque requête : le contexte est
// annulé au-delà, ce qui interrompt les requêtes SQL et les appels au
// service d'identité en cours.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
