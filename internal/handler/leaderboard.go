package handler

import (
	"net/http"
	"strconv"

	"github.com/tejas020317/KeyRushers/internal/game"
	"github.com/tejas020317/KeyRushers/internal/middleware"
	"github.com/tejas020317/KeyRushers/internal/utils"
)

// GetLeaderboard récupère le classement d'un mode (top 100 max).
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mode, err := game.ParseMode(query.Get("mode"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mode")
		return
	}

	limit := 100
	if limitStr := query.Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = l
	}

	standings, err := h.store.Standings(r.Context(), mode)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	utils.Success(w, game.Board(standings, mode, limit))
}

// GetStats récupère les statistiques globales d'un mode.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	mode, err := game.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mode")
		return
	}

	standings, err := h.store.Standings(r.Context(), mode)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	utils.Success(w, game.ComputeStats(standings, mode))
}

// GetUserRank récupère le rang du joueur connecté dans un mode.
func (h *Handler) GetUserRank(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	mode, err := game.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mode")
		return
	}

	standings, err := h.store.Standings(r.Context(), mode)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load rank")
		return
	}

	result, found := game.Rank(standings, mode, claims.UID)
	if !found {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	utils.Success(w, result)
}
