// Package config loads the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every environment-driven setting of the server.
type Config struct {
	Port     string `envconfig:"PORT" default:"8000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBURL string `envconfig:"DB_URL" required:"true"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer     string        `envconfig:"JWT_ISS" default:"campus-connect"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	AllowedDomain string        `envconfig:"ALLOWED_DOMAIN" default:"srm.edu.in"`
	DemoUsers     []string      `envconfig:"DEMO_USERS"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:8000/auth/google/callback"`

	NATSURL      string `envconfig:"NATS_URL"`
	NATSCred     string `envconfig:"NATS_CRED"`
	NATSUser     string `envconfig:"NATS_USER"`
	NATSPassword string `envconfig:"NATS_PASSWORD"`

	BannedWords        []string `envconfig:"BANNED_WORDS" default:"spam,scam,advertisement"`
	SentimentURL       string   `envconfig:"SENTIMENT_URL"`
	SentimentToken     string   `envconfig:"SENTIMENT_TOKEN"`
	SentimentThreshold float64  `envconfig:"SENTIMENT_THRESHOLD" default:"0.95"`

	MaxMessageLength int           `envconfig:"MAX_MESSAGE_LENGTH" default:"2000"`
	MessageBurst     int           `envconfig:"MESSAGE_BURST" default:"30"`
	MessageWindow    time.Duration `envconfig:"MESSAGE_WINDOW" default:"1m"`
	HistoryLimit     int           `envconfig:"HISTORY_LIMIT" default:"50"`
	PingInterval     time.Duration `envconfig:"PING_INTERVAL" default:"54s"`

	LoginRequests int           `envconfig:"LOGIN_REQUESTS" default:"10"`
	LoginWindow   time.Duration `envconfig:"LOGIN_WINDOW" default:"1m"`

	// TrustProxy keys rate limits on X-Forwarded-For. Set it only when a
	// reverse proxy in front of the server appends that header.
	TrustProxy bool `envconfig:"TRUST_PROXY" default:"false"`
	// AllowedOrigins are extra host patterns allowed to open the websocket.
	// The server's own host is always allowed.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

// DemoUser is a password account seeded at startup.
type DemoUser struct {
	Email    string
	FullName string
	Password string
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the values envconfig cannot.
func (c Config) Validate() error {
	if c.MessageBurst <= 0 || c.MessageWindow <= 0 {
		return errors.New("config: MESSAGE_BURST and MESSAGE_WINDOW must be positive")
	}
	if c.LoginRequests <= 0 || c.LoginWindow <= 0 {
		return errors.New("config: LOGIN_REQUESTS and LOGIN_WINDOW must be positive")
	}
	if c.HistoryLimit < 0 {
		return errors.New("config: HISTORY_LIMIT must not be negative")
	}
	if c.SentimentThreshold < 0 || c.SentimentThreshold > 1 {
		return fmt.Errorf("config: SENTIMENT_THRESHOLD must be within [0, 1], got %v", c.SentimentThreshold)
	}
	if _, err := c.ParseDemoUsers(); err != nil {
		return err
	}

	return nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// ParseDemoUsers decodes DEMO_USERS entries of the form "email|Full Name|password".
func (c Config) ParseDemoUsers() ([]DemoUser, error) {
	users := make([]DemoUser, 0, len(c.DemoUsers))
	for _, entry := range c.DemoUsers {
		parts := strings.SplitN(entry, "|", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("config: DEMO_USERS entry %q must be email|name|password", entry)
		}
		users = append(users, DemoUser{
			Email:    strings.TrimSpace(parts[0]),
			FullName: strings.TrimSpace(parts[1]),
			Password: parts[2],
		})
	}

	return users, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
