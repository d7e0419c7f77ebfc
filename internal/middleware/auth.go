package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/tejas020317/KeyRushers/internal/identity"
	"github.com/tejas020317/KeyRushers/internal/utils"
)

// Context keys
type contextKey string

const claimsContextKey = contextKey("claims")

// Auth valide le token Bearer auprès du service d'identité et injecte les
// claims dans le contexte de la requête.
func Auth(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := utils.BearerToken(r)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "missing token")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrInvalidToken) {
					utils.Error(w, http.StatusUnauthorized, "invalid token")
					return
				}
				utils.Error(w, http.StatusServiceUnavailable, "identity service unavailable")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext récupère les claims injectés par Auth.
func ClaimsFromContext(r *http.Request) (identity.Claims, error) {
	claims, ok := r.Context().Value(claimsContextKey).(identity.Claims)
	if !ok || claims.UID == "" {
		return identity.Claims{}, errors.New("claims not found in context")
	}
	return claims, nil
}
