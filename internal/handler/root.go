package handler

import (
	"net/http"

	"github.com/tejas020317/KeyRushers/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "KeyRushers API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"scores": []map[string]string{
				{"method": "POST", "path": "/api/scores", "description": "Soumettre un score (auth)"},
				{"method": "GET", "path": "/api/scores/leaderboard", "description": "Classement par mode (?mode=&limit=)"},
				{"method": "GET", "path": "/api/scores/stats", "description": "Statistiques globales d'un mode (?mode=)"},
				{"method": "GET", "path": "/api/scores/user-rank", "description": "Rang du joueur connecté (auth, ?mode=)"},
			},
			"profile": []map[string]string{
				{"method": "GET", "path": "/api/me", "description": "Profil du joueur connecté (auth, créé au premier appel)"},
				{"method": "PATCH", "path": "/api/me", "description": "Mise à jour partielle du profil (auth)"},
			},
			"misc": []map[string]string{
				{"method": "GET", "path": "/api/health", "description": "Health check"},
			},
		},
	}

	utils.Success(w, routes)
}
