// Package main our entry point.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	viewChat "github.com/johndosdos/campus-connect/components/chat"
	"github.com/johndosdos/campus-connect/internal/auth"
	"github.com/johndosdos/campus-connect/internal/broker"
	"github.com/johndosdos/campus-connect/internal/config"
	"github.com/johndosdos/campus-connect/internal/database"
	"github.com/johndosdos/campus-connect/internal/handler"
	"github.com/johndosdos/campus-connect/internal/moderation"
	ratelimiter "github.com/johndosdos/campus-connect/internal/rate_limiter"
	ws "github.com/johndosdos/campus-connect/internal/websocket"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting application...")

	// Init DB
	slog.Info("Initializing Database connection...")

	dbConn, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("could not connect to the postgresql database: %v", err)
	}
	defer dbConn.Close()

	if err := database.Migrate(ctx, dbConn); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	dbQueries := database.New(dbConn)

	// Init auth
	directory := auth.NewDirectory(dbQueries, cfg.AllowedDomain)
	demoUsers, err := cfg.ParseDemoUsers()
	if err != nil {
		log.Fatalf("invalid demo users: %v", err)
	}
	if err := directory.Seed(ctx, demoUsers); err != nil {
		log.Fatalf("failed to seed demo users: %v", err)
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	// Init broker. Without NATS every message stays inside this instance.
	var b broker.Broker = broker.NewLocal()
	var natsConn *nats.Conn

	if cfg.NATSURL != "" {
		slog.Info("Initializing NATS connection...")

		natsConn, err = connectNATS(cfg)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}

		js, err := jetstream.New(natsConn)
		if err != nil {
			log.Fatalf("failed to create jetstream instance: %v", err)
		}

		b, err = broker.NewJetStream(ctx, js)
		if err != nil {
			log.Fatalf("failed to init jetstream broker: %v", err)
		}
	}

	// Init moderation
	var classifier moderation.Classifier
	if cfg.SentimentURL != "" {
		classifier = moderation.NewHTTPClassifier(cfg.SentimentURL, cfg.SentimentToken, 5*time.Second)
	}
	moderator, err := moderation.NewModerator(cfg.BannedWords, classifier, cfg.SentimentThreshold)
	if err != nil {
		log.Fatalf("failed to build moderator: %v", err)
	}

	// hub.Run is our central hub that is always listening for client related events.
	hub := ws.NewHub(dbQueries, b, moderator, ws.Options{
		HistoryLimit:     cfg.HistoryLimit,
		MaxMessageLength: cfg.MaxMessageLength,
		MessageBurst:     cfg.MessageBurst,
		MessageWindow:    cfg.MessageWindow,
		PingInterval:     cfg.PingInterval,
	})
	go hub.Run(ctx)

	loginLimiter := ratelimiter.New(ctx, ratelimiter.Options{
		Requests:      cfg.LoginRequests,
		Window:        cfg.LoginWindow,
		IdleTTL:       10 * time.Minute,
		SweepInterval: time.Minute,
		TrustProxy:    cfg.TrustProxy,
	})

	deps := handler.Deps{
		Hub:          hub,
		Directory:    directory,
		Tokens:       tokens,
		TokenTTL:     cfg.TokenTTL,
		Messages:     dbQueries,
		LoginLimiter: loginLimiter,
		Origins:      cfg.AllowedOrigins,
		Page:         viewChat.PageData{Domain: directory.Domain()},
	}
	if cfg.GoogleEnabled() {
		deps.Google = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	// Websocket connections are long lived, so only the header read is bounded.
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler.Routes(deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		slog.Info("Server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", slog.Any("error", err))
	}

	// Drain NATS connection.
	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			slog.Error("couldn't drain NATS conn", slog.Any("error", err))
		}
	}

	slog.Info("Server stopped")
}

func connectNATS(cfg config.Config) (*nats.Conn, error) {
	var opts []nats.Option

	if cfg.NATSCred != "" {
		opts = append(opts, nats.UserCredentials(cfg.NATSCred))
	} else if cfg.NATSUser != "" && cfg.NATSPassword != "" {
		opts = append(opts, nats.UserInfo(cfg.NATSUser, cfg.NATSPassword))
	}

	opts = append(opts, nats.Timeout(5*time.Second), nats.Name("campus-connect"))

	return nats.Connect(cfg.NATSURL, opts...)
}
