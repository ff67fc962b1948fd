package http

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waitlist/internal/ratelimit"
	"waitlist/internal/service"
)

// NewRouter mounts the public waitlist API. Join submissions additionally go
// through the per-IP join limiter; httprate caps overall request volume.
func NewRouter(svc *service.ReferralService, sender service.EmailSender, limiter ratelimit.Limiter, corsOrigins string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	origins := []string{"*"}
	if corsOrigins != "" {
		origins = strings.Split(corsOrigins, ",")
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	h := &handler{svc: svc, sender: sender, limiter: limiter}
	r.Route("/v1/waitlist", func(r chi.Router) {
		r.Post("/join", h.join)
		r.Get("/dashboard/{userID}", h.dashboard)
	})

	return r
}

// clientIP keys the join limiter. chimw.RealIP has already folded
// X-Forwarded-For / X-Real-IP into RemoteAddr by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
