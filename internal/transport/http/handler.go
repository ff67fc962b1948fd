package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"waitlist/internal/domain"
	"waitlist/internal/dto"
	"waitlist/internal/observability/metrics"
	"waitlist/internal/ratelimit"
	"waitlist/internal/referral"
	"waitlist/internal/service"
)

type handler struct {
	svc     *service.ReferralService
	sender  service.EmailSender
	limiter ratelimit.Limiter
}

func (h *handler) join(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	allowed, err := h.limiter.Allow(r.Context(), ip)
	if err != nil {
		slog.Default().Error("join limiter check failed", "error", err, "ip", ip)
		// Fail open: a broken limiter backend should not take joins down.
		allowed = true
	}
	if !allowed {
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var req dto.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	if !looksLikeEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	// Malformed codes never reach the repository; an absent referral is fine.
	code := strings.TrimSpace(req.ReferralCode)
	if code != "" && !referral.IsValidCode(code) {
		slog.Default().Debug("dropping malformed referral code", "ip", ip)
		code = ""
	}

	res, err := h.svc.JoinWaitlist(r.Context(), dto.JoinInput{
		Email:        req.Email,
		ReferralCode: code,
	})
	if err != nil {
		metrics.JoinsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Please enter a valid email address")
			return
		}
		slog.Default().Error("join failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to join waitlist. Please try again.")
		return
	}

	status := http.StatusOK
	message := "You're already on the waitlist."
	if res.JoinMeta.WasCreated {
		status = http.StatusCreated
		message = "Successfully joined the waitlist!"
		metrics.JoinsTotal.WithLabelValues("created").Inc()
		go h.sendWelcome(res.UserID, req.Email, req.FirstName, res.ReferralLink)
	} else {
		metrics.JoinsTotal.WithLabelValues("existing").Inc()
	}
	if res.JoinMeta.ReferralWasApplied {
		metrics.ReferralsCreditedTotal.WithLabelValues().Inc()
	}

	writeJSON(w, status, joinResponse{
		Success:      true,
		Message:      message,
		JoinResponse: res,
	})
}

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "userID")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return
	}

	res, err := h.svc.GetDashboard(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Default().Error("dashboard failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// sendWelcome runs off the request path. A failed send is logged and counted,
// never surfaced: the join already succeeded.
func (h *handler) sendWelcome(userID uuid.UUID, to, firstName, referralLink string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.sender.SendWelcome(ctx, to, firstName, userID, referralLink); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("error").Inc()
		slog.Default().Error("welcome email failed", "error", err, "user_id", userID)
		return
	}
	metrics.EmailsSentTotal.WithLabelValues("ok").Inc()
}

type joinResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*dto.JoinResponse
}

func looksLikeEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
