package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/johndosdos/campus-connect/internal/config"
	"github.com/johndosdos/campus-connect/internal/database"
)

var (
	ErrWrongDomain        = errors.New("email is outside the allowed domain")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the subset of database.Queries the directory needs.
type UserStore interface {
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	UpsertUser(ctx context.Context, arg database.UpsertUserParams) (database.User, error)
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	GetUserByID(ctx context.Context, userID pgtype.UUID) (database.User, error)
}

// User is an authenticated chat participant.
type User struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// DisplayName is what other participants see as the sender.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// Directory resolves sign-ins against the users table.
type Directory struct {
	store  UserStore
	domain string
}

func NewDirectory(store UserStore, domain string) *Directory {
	return &Directory{store: store, domain: strings.ToLower(domain)}
}

// Domain returns the email domain accepted for sign-in.
func (d *Directory) Domain() string {
	return d.domain
}

// InDomain reports whether email belongs to the allowed domain.
func (d *Directory) InDomain(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+d.domain)
}

// Login checks a password sign-in.
func (d *Directory) Login(ctx context.Context, email, password string) (User, error) {
	if !d.InDomain(email) {
		return User{}, ErrWrongDomain
	}

	row, err := d.store.GetUserByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("internal/auth: failed to retrieve user: %w", err)
	}

	// Accounts created through Google have no password.
	if !row.HashedPassword.Valid {
		return User{}, ErrInvalidCredentials
	}

	ok, err := CheckPasswordHash(password, row.HashedPassword.String)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}

	return toUser(row), nil
}

// EnsureUser returns the user registered under email, creating it on first
// sign-in through an external identity provider.
func (d *Directory) EnsureUser(ctx context.Context, email, fullName string) (User, error) {
	if !d.InDomain(email) {
		return User{}, ErrWrongDomain
	}

	row, err := d.store.GetUserByEmail(ctx, email)
	if err == nil {
		return toUser(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("internal/auth: failed to retrieve user: %w", err)
	}

	row, err = d.store.CreateUser(ctx, database.CreateUserParams{
		UserID:    pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Email:     email,
		FullName:  fullName,
		CreatedAt: pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	})
	if err != nil {
		return User{}, fmt.Errorf("internal/auth: failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered",
		slog.String("email", email))

	return toUser(row), nil
}

// Lookup resolves a user ID taken from a validated token.
func (d *Directory) Lookup(ctx context.Context, userID uuid.UUID) (User, error) {
	row, err := d.store.GetUserByID(ctx, pgtype.UUID{Bytes: userID, Valid: true})
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("internal/auth: failed to retrieve user: %w", err)
	}

	return toUser(row), nil
}

// Seed creates or refreshes the configured password accounts.
func (d *Directory) Seed(ctx context.Context, users []config.DemoUser) error {
	for _, u := range users {
		if !d.InDomain(u.Email) {
			return fmt.Errorf("internal/auth: seed user %s: %w", u.Email, ErrWrongDomain)
		}

		hashedPw, err := HashPassword(u.Password)
		if err != nil {
			return err
		}

		_, err = d.store.UpsertUser(ctx, database.UpsertUserParams{
			UserID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
			Email:          u.Email,
			FullName:       u.FullName,
			HashedPassword: pgtype.Text{String: hashedPw, Valid: true},
			CreatedAt:      pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
		})
		if err != nil {
			return fmt.Errorf("internal/auth: failed to seed user %s: %w", u.Email, err)
		}
	}

	return nil
}

func toUser(row database.User) User {
	return User{
		ID:       row.UserID.Bytes,
		Email:    row.Email,
		FullName: row.FullName,
	}
}
