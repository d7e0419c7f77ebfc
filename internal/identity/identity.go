// Package identity vérifie les tokens Bearer auprès du service d'identité
// externe (Firebase en production). Le backend ne consomme que les claims
// {uid, email, name, picture} ; la vérification elle-même est déléguée.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidToken signale un token absent, expiré ou rejeté par le service.
var ErrInvalidToken = errors.New("invalid identity token")

// Claims sont les informations d'identité extraites d'un token vérifié.
type Claims struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verifier vérifie un token opaque et retourne les claims associés.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// HTTPVerifier vérifie les tokens via un appel POST au service d'identité.
type HTTPVerifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPVerifier(endpoint string) *HTTPVerifier {
	return &HTTPVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Claims{}, fmt.Errorf("could not build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return Claims{}, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return Claims{}, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return Claims{}, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return Claims{}, fmt.Errorf("could not decode identity response: %w", err)
	}
	if claims.UID == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
