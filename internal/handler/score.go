package handler

import (
	"errors"
	"net/http"

	"github.com/tejas020317/KeyRushers/internal/game"
	"github.com/tejas020317/KeyRushers/internal/logger"
	"github.com/tejas020317/KeyRushers/internal/middleware"
	model "github.com/tejas020317/KeyRushers/internal/models"
	"github.com/tejas020317/KeyRushers/internal/utils"
)

// SubmitScore enregistre un score de test et met à jour l'agrégat du joueur.
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var in model.SubmitScoreInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := in.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			utils.ErrorDetails(w, http.StatusBadRequest, "Invalid score", verr.Fields)
			return
		}
		utils.Error(w, http.StatusBadRequest, "Invalid score")
		return
	}

	// mode déjà validé par Validate
	mode, _ := game.ModeForDuration(in.DurationSec)

	// Contrôle de vraisemblance : on log mais on accepte
	if plausible := in.PlausibleWpm(); in.Wpm > plausible {
		logger.Warning("Suspicious WPM accepted: wpm=%.0f plausible=%.0f uid=%s mode=%s",
			in.Wpm, plausible, claims.UID, mode)
	}

	profile, err := h.store.EnsureProfile(r.Context(), claims)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	rec := in.Record(claims.UID, model.UserSnapshot{
		DisplayName: profile.DisplayName,
		Avatar:      profile.Avatar,
	})

	// Un échec ici signifie qu'aucun effet n'est visible : le score et
	// l'agrégat sont appliqués tout-ou-rien par le storage.
	if err := h.store.SubmitScore(r.Context(), rec); err != nil {
		logger.Error("SubmitScore failed for %s: %v", claims.UID, err)
		utils.Error(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	utils.Created(w, map[string]interface{}{
		"message":     "Score submitted",
		"id":          rec.ID,
		"wpm":         rec.Wpm,
		"accuracy":    rec.Accuracy,
		"durationSec": rec.DurationSec,
		"mode":        mode,
	})
}
