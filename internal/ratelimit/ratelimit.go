package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter gates join submissions to one per key per window. Keys are client
// IPs in practice.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Local keeps submission times in process memory. Correct for a single
// instance only; deployments behind a load balancer should use the Redis
// limiter so the window is shared.
type Local struct {
	mu        sync.Mutex
	window    time.Duration
	seen      map[string]time.Time
	lastSweep time.Time
}

func NewLocal(window time.Duration) *Local {
	return &Local{
		window:    window,
		seen:      make(map[string]time.Time),
		lastSweep: time.Now(),
	}
}

func (l *Local) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.window {
		for k, t := range l.seen {
			if now.Sub(t) >= l.window {
				delete(l.seen, k)
			}
		}
		l.lastSweep = now
	}

	if t, ok := l.seen[key]; ok && now.Sub(t) < l.window {
		return false, nil
	}
	l.seen[key] = now
	return true, nil
}
