package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse est l'enveloppe JSON commune à toutes les réponses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Message string      `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, APIResponse{Success: true, Data: data})
}

func Error(w http.ResponseWriter, status int, msg string) {
	LogError("[%d] %s", status, msg)
	JSON(w, status, APIResponse{Success: false, Error: msg})
}

// ErrorDetails renvoie une erreur avec le détail par champ (validation).
func ErrorDetails(w http.ResponseWriter, status int, msg string, details interface{}) {
	LogError("[%d] %s", status, msg)
	JSON(w, status, APIResponse{Success: false, Error: msg, Details: details})
}

func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Message: msg})
}
