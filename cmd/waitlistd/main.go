package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"waitlist/internal/config"
	"waitlist/internal/domain"
	"waitlist/internal/email"
	"waitlist/internal/httpx"
	"waitlist/internal/observability/logging"
	"waitlist/internal/observability/metrics"
	obsmw "waitlist/internal/observability/middleware"
	"waitlist/internal/ratelimit"
	"waitlist/internal/referral"
	"waitlist/internal/repository"
	"waitlist/internal/service"
	"waitlist/internal/store"
	transport "waitlist/internal/transport/http"
	"waitlist/pkg/db"
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "waitlist",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("waitlist")

	gen, err := referral.NewGenerator(cfg.CodeLength, referral.DefaultAlphabet)
	if err != nil {
		logger.Error("referral code config", "error", err)
		os.Exit(1)
	}

	var repo repository.Waitlist
	if cfg.DatabaseURL != "" {
		gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
		if err != nil {
			logger.Error("gorm open", "error", err)
			os.Exit(1)
		}
		if err := gdb.AutoMigrate(&domain.User{}); err != nil {
			logger.Error("automigrate", "error", err)
			os.Exit(1)
		}
		repo = store.NewWaitlistRepository(gdb, gen)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repository")
		repo = repository.NewMemoryWithCodes(gen)
	}

	svc, err := service.New(repo, cfg.BaseURL, nil)
	if err != nil {
		logger.Error("service config", "error", err)
		os.Exit(1)
	}

	var sender service.EmailSender = email.Noop{}
	if cfg.EmailAPIKey != "" {
		sender = email.NewClient(cfg.EmailEndpoint, cfg.EmailAPIKey, cfg.EmailFrom, cfg.EmailTimeout)
	}

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			cancel()
			logger.Error("redis ping", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		cancel()
		limiter = ratelimit.NewRedis(rdb, cfg.JoinWindow)
	} else {
		limiter = ratelimit.NewLocal(cfg.JoinWindow)
	}

	mux := transport.NewRouter(svc, sender, limiter, cfg.CORSOrigins)
	handler := obsmw.WithMetrics(httpx.LogRequests(mux))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("waitlist service listening", "addr", srv.Addr, "base_url", cfg.BaseURL)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
