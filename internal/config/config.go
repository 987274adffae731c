package config

import (
	"os"
	"strconv"
	"strings"

	"casino_engine/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	JWTSecret   string

	// Game engine
	HouseEdge      float64
	MinBet         float64
	MaxBet         float64
	SessionTTLSecs int

	// Jackpot
	JackpotRate          float64
	JackpotRateOverrides map[string]float64

	// Rate limiting
	APIRateLimit   int
	APIRateWindow  int
	GameRateLimit  int
	GameRateWindow int
}

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	houseEdge := 0.02
	if v := os.Getenv("HOUSE_EDGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
			houseEdge = f
		}
	}

	minBet := 0.00000001
	if v := os.Getenv("MIN_BET"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			minBet = f
		}
	}

	maxBet := 1000000.0
	if v := os.Getenv("MAX_BET"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			maxBet = f
		}
	}

	sessionTTL := 3600
	if v := os.Getenv("SESSION_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionTTL = n
		}
	}

	jackpotRate := 0.001
	if v := os.Getenv("JACKPOT_CONTRIBUTION_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
			jackpotRate = f
		}
	}

	return &Config{
		AppPort:              port,
		DatabaseURL:          dbURL,
		RedisAddr:            redisAddr,
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		JWTSecret:            jwtSecret,
		HouseEdge:            houseEdge,
		MinBet:               minBet,
		MaxBet:               maxBet,
		SessionTTLSecs:       sessionTTL,
		JackpotRate:          jackpotRate,
		JackpotRateOverrides: parseRateOverrides(os.Getenv("JACKPOT_RATE_OVERRIDES")),
		APIRateLimit:         envInt("API_RATE_LIMIT", 60),
		APIRateWindow:        envInt("API_RATE_WINDOW_SECONDS", 60),
		GameRateLimit:        envInt("GAME_RATE_LIMIT", 60),
		GameRateWindow:       envInt("GAME_RATE_WINDOW_SECONDS", 60),
	}
}

// parseRateOverrides reads per-game jackpot rates from a
// "slug=rate,slug=rate" list, e.g. "dice=0.002,plinko=0".
func parseRateOverrides(raw string) map[string]float64 {
	if raw == "" {
		return nil
	}
	out := make(map[string]float64)
	for _, part := range strings.Split(raw, ",") {
		slug, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil && f >= 0 && f < 1 {
			out[slug] = f
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
