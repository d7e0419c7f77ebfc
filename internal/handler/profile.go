package handler

import (
	"errors"
	"net/http"

	"github.com/tejas020317/KeyRushers/internal/middleware"
	model "github.com/tejas020317/KeyRushers/internal/models"
	"github.com/tejas020317/KeyRushers/internal/storage"
	"github.com/tejas020317/KeyRushers/internal/utils"
)

// GetMe retourne le profil du joueur connecté, en le créant au premier
// appel depuis les claims d'identité.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	profile, err := h.store.EnsureProfile(r.Context(), claims)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	utils.Success(w, profile)
}

// UpdateMe applique une mise à jour partielle du profil. Pas de création
// implicite : 404 si le profil n'existe pas.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var upd model.ProfileUpdate
	if err := utils.DecodeJSON(r, &upd); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := upd.Validate(h.cfg.AvatarMaxBytes); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			utils.ErrorDetails(w, http.StatusBadRequest, "Invalid profile", verr.Fields)
			return
		}
		utils.Error(w, http.StatusBadRequest, "Invalid profile")
		return
	}

	profile, err := h.store.UpdateProfile(r.Context(), claims.UID, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.Success(w, profile)
}
