// Package handler wires the HTTP surface of the chat server.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	viewChat "github.com/johndosdos/campus-connect/components/chat"
	"github.com/johndosdos/campus-connect/internal"
	"github.com/johndosdos/campus-connect/internal/auth"
	ratelimiter "github.com/johndosdos/campus-connect/internal/rate_limiter"
	ws "github.com/johndosdos/campus-connect/internal/websocket"
)

var errMissingToken = errors.New("token query parameter is missing")

// Deps are the collaborators the routes need. Google and LoginLimiter are
// optional.
type Deps struct {
	Hub          *ws.Hub
	Directory    *auth.Directory
	Tokens       *auth.TokenIssuer
	TokenTTL     time.Duration
	Messages     MessageSearcher
	Google       OAuthProvider
	LoginLimiter *ratelimiter.Limiter
	Origins      []string
	Page         viewChat.PageData
}

// Routes builds the router.
func Routes(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	d.Page.GoogleEnabled = d.Google != nil
	r.Method(http.MethodGet, "/", ServeRoot(d.Page))

	login := http.Handler(SubmitToken(d.Directory, d.Tokens))
	if d.LoginLimiter != nil {
		login = d.LoginLimiter.Middleware(login)
	}
	r.Method(http.MethodPost, "/token", login)

	if d.Google != nil {
		r.Get("/auth/google", ServeGoogleLogin(d.Google))
		r.Get("/auth/google/callback", ServeGoogleCallback(d.Google, d.Directory, d.Tokens, d.TokenTTL))
	}

	r.Get("/ws/chat", ServeWs(d.Hub, d.Tokens, d.Directory, d.Origins))
	r.With(internal.Middleware(d.Tokens)).Get("/search", ServeSearch(d.Messages, d.Directory))

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.InfoContext(r.Context(), "request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}
