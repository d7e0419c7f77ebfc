// Package storage définit l'accès aux profils, scores et agrégats des
// joueurs. Deux implémentations : mémoire (tests, développement) et
// PostgreSQL (production).
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/tejas020317/KeyRushers/internal/game"
	"github.com/tejas020317/KeyRushers/internal/identity"
	model "github.com/tejas020317/KeyRushers/internal/models"
	"github.com/tejas020317/KeyRushers/internal/utils"
)

// ErrNotFound est renvoyée quand le joueur demandé n'existe pas.
var ErrNotFound = errors.New("player not found")

// Store est le contrat du stockage des joueurs.
//
// SubmitScore doit être atomique : le score brut, les records et les
// créneaux d'un joueur sont appliqués tout-ou-rien, et deux soumissions
// concurrentes du même joueur ne doivent jamais s'écraser (pas de
// lecture-modification-écriture non sérialisée).
type Store interface {
	// EnsureProfile retourne le profil du joueur, en le créant à partir
	// des claims d'identité s'il n'existe pas encore.
	EnsureProfile(ctx context.Context, claims identity.Claims) (*model.Profile, error)

	// Profile retourne le profil d'un joueur existant.
	Profile(ctx context.Context, uid string) (*model.Profile, error)

	// UpdateProfile applique une mise à jour partielle déjà validée.
	UpdateProfile(ctx context.Context, uid string, upd model.ProfileUpdate) (*model.Profile, error)

	// SubmitScore persiste un score brut et applique ses effets sur
	// l'agrégat du joueur. Renseigne rec.ID et rec.CreatedAt.
	SubmitScore(ctx context.Context, rec *model.ScoreRecord) error

	// Standings retourne la ligne de chaque joueur pour un mode, sans
	// filtrage ni tri : le classement est calculé par le package game.
	Standings(ctx context.Context, mode game.Mode) ([]game.Standing, error)
}

// SeedProfile dérive les valeurs initiales d'un profil depuis les claims :
// nom tronqué à 50 caractères ("Anonymous" par défaut) et avatar DiceBear
// quand le provider ne fournit pas de photo.
func SeedProfile(claims identity.Claims) (displayName, avatar string) {
	displayName = strings.TrimSpace(claims.Name)
	if displayName == "" {
		displayName = "Anonymous"
	}
	if len(displayName) > model.MaxDisplayNameLen {
		displayName = displayName[:model.MaxDisplayNameLen]
	}

	avatar = claims.Picture
	if avatar == "" {
		avatar = utils.DefaultAvatarURL(displayName)
	}
	return displayName, avatar
}
