package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ──────────────────────────────────────────────────────

type window struct {
	count int
	end   time.Time
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*window
	now     func() time.Time
}

func NewLimiter(limit int, per time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  per,
		entries: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records one hit for key. When the limit is exceeded it reports false
// together with the time the current window ends.
func (l *Limiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.entries[key]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.window)}
		l.entries[key] = w
	}
	w.count++
	return w.count <= l.limit, w.end
}

// Purge drops expired windows and returns how many were removed.
func (l *Limiter) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	n := 0
	for k, w := range l.entries {
		if now.After(w.end) {
			delete(l.entries, k)
			n++
		}
	}
	return n
}

func (l *Limiter) purgeEvery(interval time.Duration, name string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if n := l.Purge(); n > 0 {
			log.Debug().Str("limiter", name).Int("purged", n).Msg("rate limiter entries purged")
		}
	}
}

func (l *Limiter) handler(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, end := l.Allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(end).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// LoginRateLimiter allows 20 login attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := NewLimiter(20, time.Minute)
	go l.purgeEvery(purgeInterval, "login")
	return l.handler("Too many login attempts, try again in a minute")
}

// RateLimiter is the general per-IP API limiter.
func RateLimiter(limit int, per time.Duration) gin.HandlerFunc {
	l := NewLimiter(limit, per)
	go l.purgeEvery(purgeInterval, "api")
	return l.handler("Too many requests, try again shortly")
}
