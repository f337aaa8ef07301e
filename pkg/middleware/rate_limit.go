package middleware

import (
	"net/http"
	"sync"
	"time"

	"cafebook/pkg/logger"
)

type PhoneExtractor func(r *http.Request) string

// PhoneRateLimiter throttles booking attempts per customer phone with a
// sliding window. Requests without a phone are never limited.
type PhoneRateLimiter struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor PhoneExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewPhoneRateLimiter(limit int, window time.Duration, extractor PhoneExtractor, log *logger.Logger) *PhoneRateLimiter {
	limiter := &PhoneRateLimiter{
		attempts:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanupLoop()

	return limiter
}

// cleanupLoop drops phones whose whole window has lapsed so the map does
// not grow with every customer ever seen.
func (rl *PhoneRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for phone, stamps := range rl.attempts {
				if len(stamps) == 0 || time.Since(stamps[len(stamps)-1]) > rl.window {
					delete(rl.attempts, phone)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *PhoneRateLimiter) Stop() {
	close(rl.stopCh)
}

// Allow records the attempt and reports whether it is within the limit.
// Check and record happen under one lock so concurrent requests from the
// same phone cannot both slip under the threshold.
func (rl *PhoneRateLimiter) Allow(phone string) bool {
	if phone == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	live := rl.attempts[phone][:0]
	for _, ts := range rl.attempts[phone] {
		if now.Sub(ts) < rl.window {
			live = append(live, ts)
		}
	}

	if len(live) >= rl.limit {
		rl.attempts[phone] = live
		return false
	}

	rl.attempts[phone] = append(live, now)
	return true
}

func PhoneRateLimit(limiter *PhoneRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			extractor := limiter.extractor
			if extractor == nil {
				extractor = DefaultPhoneExtractor
			}

			phone := extractor(r)
			if !limiter.Allow(phone) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestIDFromContext(r.Context()),
					"phone", phone,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func DefaultPhoneExtractor(r *http.Request) string {
	return r.Header.Get("X-Phone-Number")
}
