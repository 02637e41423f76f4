package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel zerolog.Level

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// PublicURL sert d'origine pour les embeds quand la requête ne la donne pas.
	PublicURL  string
	AdminToken string

	YouTubeBaseURL string
	GitHubBaseURL  string
	// UpstreamRPS borne les appels sortants vers l'API YouTube.
	UpstreamRPS float64
	// StatusRateLimit: requêtes par minute et par IP sur /status.
	StatusRateLimit int
}

// Load lit un éventuel fichier .env puis l'environnement.
func Load() Config {
	_ = godotenv.Load()
	return Default()
}

func Default() Config {
	return Config{
		Addr:            envOr("CLS_ADDR", "127.0.0.1:8080"),
		DBPath:          envOr("CLS_DB_PATH", "cls.db"),
		LogLevel:        parseLevel(envOr("CLS_LOG_LEVEL", "info")),
		RedisAddr:       os.Getenv("CLS_REDIS_ADDR"),
		RedisPassword:   os.Getenv("CLS_REDIS_PASSWORD"),
		RedisDB:         envInt("CLS_REDIS_DB", 0),
		RedisPrefix:     os.Getenv("CLS_REDIS_PREFIX"),
		PublicURL:       strings.TrimRight(os.Getenv("CLS_PUBLIC_URL"), "/"),
		AdminToken:      os.Getenv("CLS_ADMIN_TOKEN"),
		YouTubeBaseURL:  os.Getenv("CLS_YOUTUBE_BASE_URL"),
		GitHubBaseURL:   os.Getenv("CLS_GITHUB_BASE_URL"),
		UpstreamRPS:     envFloat("CLS_UPSTREAM_RPS", 5),
		StatusRateLimit: envInt("CLS_STATUS_RATE_LIMIT", 120),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseLevel(v string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(v)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
