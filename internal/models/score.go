package model

import (
	"fmt"
	"math"
	"time"

	"github.com/tejas020317/KeyRushers/internal/game"
)

// UserSnapshot fige l'identité affichable du joueur au moment du score.
type UserSnapshot struct {
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
}

// ScoreRecord est un score brut, immuable une fois créé : jamais modifié ni
// supprimé par le fonctionnement normal.
type ScoreRecord struct {
	ID             string       `json:"id"`
	UID            string       `json:"uid"`
	Wpm            float64      `json:"wpm"`
	Accuracy       float64      `json:"accuracy"`
	ActualAccuracy float64      `json:"actualAccuracy"`
	DurationSec    int          `json:"durationSec"`
	Words          int          `json:"words"`
	Chars          int          `json:"chars"`
	Mode           string       `json:"mode"`
	UserSnapshot   UserSnapshot `json:"userSnapshot"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// SubmitScoreInput est le corps de POST /api/scores.
type SubmitScoreInput struct {
	Wpm            float64 `json:"wpm"`
	Accuracy       float64 `json:"accuracy"`
	ActualAccuracy float64 `json:"actualAccuracy"`
	DurationSec    int     `json:"durationSec"`
	Words          int     `json:"words"`
	Chars          int     `json:"chars"`
	Mode           string  `json:"mode,omitempty"`
}

// Validate vérifie les bornes de la soumission. Tout score invalide est
// rejeté ici, avant d'atteindre le moteur d'agrégation.
func (in SubmitScoreInput) Validate() error {
	verr := newValidationError()

	if in.Wpm < 0 || in.Wpm > 500 {
		verr.add("wpm", "must be between 0 and 500")
	}
	if in.Accuracy < 0 || in.Accuracy > 100 {
		verr.add("accuracy", "must be between 0 and 100")
	}
	if in.ActualAccuracy < 0 || in.ActualAccuracy > 100 {
		verr.add("actualAccuracy", "must be between 0 and 100")
	}
	if !game.ValidDuration(in.DurationSec) {
		verr.add("durationSec", "must be one of 15, 30, 60, 120")
	}
	if in.Words < 1 || in.Words > 5000 {
		verr.add("words", "must be between 1 and 5000")
	}
	if in.Chars < 1 || in.Chars > 200000 {
		verr.add("chars", "must be between 1 and 200000")
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// ModeLabel retourne le label stocké avec le score ("time-60" par défaut).
func (in SubmitScoreInput) ModeLabel() string {
	if in.Mode != "" {
		return in.Mode
	}
	return fmt.Sprintf("time-%d", in.DurationSec)
}

// PlausibleWpm borne le wpm crédible d'après le nombre de caractères tapés
// et la durée du test (mot = 5 caractères, marge de 50%).
func (in SubmitScoreInput) PlausibleWpm() float64 {
	if in.DurationSec == 0 {
		return 0
	}
	return math.Round(float64(in.Chars) / 5 / float64(in.DurationSec) * 60 * 1.5)
}

// Record construit le ScoreRecord à persister pour un joueur.
func (in SubmitScoreInput) Record(uid string, snapshot UserSnapshot) *ScoreRecord {
	return &ScoreRecord{
		UID:            uid,
		Wpm:            in.Wpm,
		Accuracy:       in.Accuracy,
		ActualAccuracy: in.ActualAccuracy,
		DurationSec:    in.DurationSec,
		Words:          in.Words,
		Chars:          in.Chars,
		Mode:           in.ModeLabel(),
		UserSnapshot:   snapshot,
	}
}
