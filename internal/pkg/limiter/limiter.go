/*
Package limiter provides token-bucket rate limiting keyed by an arbitrary string.

The HTTP layer keys it by client IP to throttle websocket connection attempts; a
background goroutine drops limiters whose buckets have refilled so idle keys do not leak.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"scum/internal/pkg/errs"
	"scum/internal/pkg/logx"
	"scum/internal/pkg/resp"

	"golang.org/x/time/rate"
)

const cleanupInterval = 3 * time.Minute

// KeyedRateLimiter holds one rate.Limiter per key.
type KeyedRateLimiter struct {
	// mu protects the limits map.
	mu sync.RWMutex

	limits map[string]*rate.Limiter

	// r is the refill rate in events per second.
	r rate.Limit

	// b is the bucket size.
	b int

	stop chan struct{}
	once sync.Once
}

// NewKeyedRateLimiter creates a limiter with rate r and burst b and starts its cleanup goroutine.
func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	k := &KeyedRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		stop:   make(chan struct{}),
	}

	go k.cleanUpIdle()

	return k
}

// GetLimiter returns the limiter for key, creating it on first use.
// Double-checked locking keeps concurrent first uses from creating two limiters.
func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.RLock()
	limiter, exists := k.limits[key]
	k.mu.RUnlock()

	if !exists {
		k.mu.Lock()
		limiter, exists = k.limits[key]
		if !exists {
			limiter = rate.NewLimiter(k.r, k.b)
			k.limits[key] = limiter
		}
		k.mu.Unlock()
	}

	return limiter
}

// Allow reports whether one more event for key fits in its bucket.
func (k *KeyedRateLimiter) Allow(key string) bool {
	return k.GetLimiter(key).Allow()
}

// Close stops the cleanup goroutine.
func (k *KeyedRateLimiter) Close() {
	k.once.Do(func() { close(k.stop) })
}

// cleanUpIdle periodically removes limiters whose bucket is full again.
func (k *KeyedRateLimiter) cleanUpIdle() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.mu.Lock()
			count := 0
			for key, limiter := range k.limits {
				if limiter.TokensAt(time.Now()) >= float64(limiter.Burst()) {
					delete(k.limits, key)
					count++
				}
			}
			remaining := len(k.limits)
			k.mu.Unlock()

			logx.Info("Rate limiter cleanup finished.", "removed", count, "active", remaining)

		case <-k.stop:
			return
		}
	}
}

// ClientIP returns the host part of r.RemoteAddr.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		ip = "unknown_ip"
	}

	return ip
}

// Middleware rejects requests over the per-IP limit with 429.
func (k *KeyedRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !k.Allow(ClientIP(r)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		next.ServeHTTP(w, r)
	})
}
