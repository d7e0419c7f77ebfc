package handler

import (
	"net/http"

	"github.com/tejas020317/KeyRushers/internal/config"
	"github.com/tejas020317/KeyRushers/internal/storage"
	"github.com/tejas020317/KeyRushers/internal/utils"
)

// Handler regroupe les handlers HTTP et leurs dépendances.
type Handler struct {
	store storage.Store
	cfg   *config.Config
}

func New(store storage.Store, cfg *config.Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
