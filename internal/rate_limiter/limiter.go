// Package ratelimiter throttles HTTP requests per caller with token buckets.
package ratelimiter

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(r *http.Request) string

// Options configures a Limiter. Requests per Window is both the refill rate
// and the burst. Buckets idle for longer than IdleTTL are dropped every
// SweepInterval. Without a Key, requests are charged to ClientIP, or to
// ForwardedClientIP when TrustProxy is set.
type Options struct {
	Requests      int
	Window        time.Duration
	IdleTTL       time.Duration
	SweepInterval time.Duration
	TrustProxy    bool
	Key           KeyFunc
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	opts    Options
}

// New starts a Limiter whose sweeper runs until ctx is done.
func New(ctx context.Context, opts Options) *Limiter {
	if opts.Requests <= 0 {
		opts.Requests = 1
	}
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 10 * opts.Window
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = opts.Window
	}
	if opts.Key == nil {
		opts.Key = ClientIP
		if opts.TrustProxy {
			opts.Key = ForwardedClientIP
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		every:   rate.Every(opts.Window / time.Duration(opts.Requests)),
		burst:   opts.Requests,
		opts:    opts,
	}
	go l.sweep(ctx)

	return l
}

func (l *Limiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(l.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, b := range l.buckets {
				if now.Sub(b.lastSeen) > l.opts.IdleTTL {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP is the address of the peer that opened the connection.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		slog.Warn("invalid argument for net.SplitHostPort()",
			slog.String("remote_addr", r.RemoteAddr))
		return r.RemoteAddr
	}

	return host
}

// ForwardedClientIP trusts the last X-Forwarded-For hop, which is the one our
// reverse proxy appended. Only use it behind such a proxy.
func ForwardedClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if hop := strings.TrimSpace(hops[len(hops)-1]); hop != "" {
			return hop
		}
	}

	return ClientIP(r)
}

// Allow spends one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}

	b.lastSeen = time.Now()
	return b.lim.Allow()
}

// Tracked returns the number of keys currently holding a bucket.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buckets)
}

// RetryAfter is how long a drained bucket needs to earn one token.
func (l *Limiter) RetryAfter() time.Duration {
	return time.Duration(float64(time.Second) / float64(l.every))
}

// Middleware rejects requests over the limit with 429 and a JSON detail.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.opts.Key(r)

		if !l.Allow(key) {
			slog.WarnContext(r.Context(), "rate limit exceeded",
				slog.String("key", key),
				slog.String("path", r.URL.Path),
				slog.String("method", r.Method))

			secs := int(math.Ceil(l.RetryAfter().Seconds()))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"detail": "Too many requests. Try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
