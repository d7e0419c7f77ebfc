package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur, chargée depuis
// l'environnement (ou un fichier .env en développement).
type Config struct {
	Port string
	URL  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// IdentityURL est l'endpoint du service d'identité qui vérifie les
	// tokens Bearer (Firebase en production).
	IdentityURL string

	// RequestTimeout borne la durée de traitement d'une requête HTTP.
	RequestTimeout time.Duration

	// AvatarMaxBytes est la taille maximale (octets décodés) d'un avatar.
	AvatarMaxBytes int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		URL:            getenv("API_URL", "http://localhost:8080"),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         getenv("DB_USER", "postgres"),
		DBPassword:     getenv("DB_PASSWORD", "postgres"),
		DBName:         getenv("DB_NAME", "keyrushers"),
		IdentityURL:    getenv("IDENTITY_URL", ""),
		RequestTimeout: getenvDuration("REQUEST_TIMEOUT", 10*time.Second),
		AvatarMaxBytes: getenvInt("AVATAR_MAX_BYTES", 5*1024*1024),
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
