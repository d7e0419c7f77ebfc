package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"
	"github.com/tejas020317/KeyRushers/internal/config"
	"github.com/tejas020317/KeyRushers/internal/handler"
	"github.com/tejas020317/KeyRushers/internal/identity"
	"github.com/tejas020317/KeyRushers/internal/middleware"
	"github.com/tejas020317/KeyRushers/internal/storage"
	"github.com/tejas020317/KeyRushers/internal/utils"
)

// SetupRouter câble les routes de l'API avec leurs middlewares.
func SetupRouter(store storage.Store, verifier identity.Verifier, cfg *config.Config) http.Handler {
	h := handler.New(store, cfg)

	r := mux.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	authenticated := r.PathPrefix("/").Subrouter()
	authenticated.Use(middleware.Auth(verifier))

	// Root - API documentation
	r.HandleFunc("/", h.RootHandler).Methods(http.MethodGet)

	// Scores
	authenticated.HandleFunc("/api/scores", h.SubmitScore).Methods(http.MethodPost)
	r.HandleFunc("/api/scores/leaderboard", h.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/scores/stats", h.GetStats).Methods(http.MethodGet)
	authenticated.HandleFunc("/api/scores/user-rank", h.GetUserRank).Methods(http.MethodGet)

	// Profil
	authenticated.HandleFunc("/api/me", h.GetMe).Methods(http.MethodGet)
	authenticated.HandleFunc("/api/me", h.UpdateMe).Methods(http.MethodPatch)

	// Health check
	r.HandleFunc("/api/health", h.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		color.Yellow("[404] %s %s (route non trouvée)", req.Method, req.URL.Path)
		utils.Error(w, http.StatusNotFound, "Route not found")
	})

	return r
}
