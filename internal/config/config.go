package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	Addr        string
	BaseURL     string
	CORSOrigins string

	// Storage. An empty DatabaseURL selects the in-memory repository.
	DatabaseURL string
	LogSQL      bool

	// Referral codes
	CodeLength int

	// Join rate limiting. RedisAddr set -> shared limiter.
	JoinWindow    time.Duration
	RedisAddr     string
	RedisPassword string

	// Welcome email. Empty EmailAPIKey disables sending.
	EmailEndpoint string
	EmailAPIKey   string
	EmailFrom     string
	EmailTimeout  time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	return Config{
		Addr:        getenv("ADDR", ":8080"),
		BaseURL:     getenv("BASE_URL", "http://localhost:8080"),
		CORSOrigins: getenv("CORS_ORIGINS", ""),

		DatabaseURL: getenv("DATABASE_URL", ""),
		LogSQL:      getbool("LOG_SQL", false),

		CodeLength: getint("REFERRAL_CODE_LENGTH", 6),

		JoinWindow:    getdur("JOIN_RATE_WINDOW", time.Minute),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		EmailEndpoint: getenv("EMAIL_API_URL", "https://api.resend.com/emails"),
		EmailAPIKey:   getenv("EMAIL_API_KEY", ""),
		EmailFrom:     getenv("EMAIL_FROM", "noreply@example.com"),
		EmailTimeout:  getdur("EMAIL_TIMEOUT", 10*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}
