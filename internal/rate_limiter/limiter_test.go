package ratelimiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(req))
	assert.Equal(t, "10.0.0.1", ForwardedClientIP(req))

	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	assert.Equal(t, "10.0.0.1", ClientIP(req))
	assert.Equal(t, "2.2.2.2", ForwardedClientIP(req))

	req = httptest.NewRequest(http.MethodPost, "/token", nil)
	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", ClientIP(req))
}

func TestMiddleware_IgnoresForwardedForByDefault(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serve := func(rl *Limiter, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/token", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		rl.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)
		return rec.Code
	}

	direct := New(ctx, Options{Requests: 1, Window: time.Hour})
	assert.Equal(t, http.StatusOK, serve(direct, "1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve(direct, "2.2.2.2"))

	proxied := New(ctx, Options{Requests: 1, Window: time.Hour, TrustProxy: true})
	assert.Equal(t, http.StatusOK, serve(proxied, "1.1.1.1"))
	assert.Equal(t, http.StatusOK, serve(proxied, "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, serve(proxied, "2.2.2.2"))
}

func TestMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := New(ctx, Options{Requests: 2, Window: time.Hour})

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/token", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "1800", last.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"detail":"Too many requests. Try again later."}`, last.Body.String())

	// Another address has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := New(ctx, Options{
		Requests: 1,
		Window:   time.Hour,
		Key:      func(r *http.Request) string { return r.FormValue("username") },
	})
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/token?username="+user, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("a"))
	assert.Equal(t, http.StatusTooManyRequests, serve("a"))
	assert.Equal(t, http.StatusOK, serve("b"))
}

func TestSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := New(ctx, Options{Requests: 1, Window: time.Minute, IdleTTL: 10 * time.Millisecond, SweepInterval: 10 * time.Millisecond})

	rl.Allow("10.0.0.4")
	assert.Eventually(t, func() bool { return rl.Tracked() == 0 }, time.Second, 10*time.Millisecond)
}
