package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL       string
	AIAPIKey          string
	EmbedModel        string
	EmbedDim          int
	GenModel          string
	Port              string
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash of the owner password
	DefaultLanguage   string
}

// LoadConfig loads the environment (and an optional .env file) and
// returns the config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AIAPIKey:          getEnv("GEMINI_API_KEY", ""),
		EmbedModel:        getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:          getEnvInt("EMBED_DIM", 768),
		GenModel:          getEnv("GEN_MODEL", "gemini-1.5-flash"),
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("env var not an int, using default")
		return def
	}
	return n
}
