package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/johndosdos/campus-connect/internal/database"
)

// MemoryStore mimics database.Queries for tests that do not need PostgreSQL.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]database.User
	messages []database.Message
	nextID   int64

	// FailMessages makes CreateMessage return an error.
	FailMessages bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]database.User)}
}

func (s *MemoryStore) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[arg.Email]; ok {
		return database.User{}, errors.New("duplicate key value violates unique constraint")
	}
	u := database.User{
		UserID:         arg.UserID,
		Email:          arg.Email,
		FullName:       arg.FullName,
		HashedPassword: arg.HashedPassword,
		CreatedAt:      arg.CreatedAt,
	}
	s.users[arg.Email] = u
	return u, nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, arg database.UpsertUserParams) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[arg.Email]
	if !ok {
		u = database.User{UserID: arg.UserID, Email: arg.Email, CreatedAt: arg.CreatedAt}
	}
	u.FullName = arg.FullName
	u.HashedPassword = arg.HashedPassword
	s.users[arg.Email] = u
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, userID pgtype.UUID) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.UserID.Bytes == userID.Bytes {
			return u, nil
		}
	}
	return database.User{}, pgx.ErrNoRows
}

func (s *MemoryStore) CreateMessage(_ context.Context, arg database.CreateMessageParams) (database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailMessages {
		return database.Message{}, errors.New("connection refused")
	}
	s.nextID++
	m := database.Message{
		ID:        s.nextID,
		UserID:    arg.UserID,
		Sender:    arg.Sender,
		Content:   arg.Content,
		CreatedAt: arg.CreatedAt,
	}
	s.messages = append(s.messages, m)
	return m, nil
}

func (s *MemoryStore) ListRecentMessages(_ context.Context, limit int32) ([]database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.messages) - int(limit)
	if start < 0 {
		start = 0
	}
	return append([]database.Message(nil), s.messages[start:]...), nil
}

func (s *MemoryStore) SearchMessages(_ context.Context, keyword string) ([]database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []database.Message
	for _, m := range s.messages {
		if strings.Contains(strings.ToLower(m.Content), strings.ToLower(keyword)) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Messages returns a copy of everything stored so far.
func (s *MemoryStore) Messages() []database.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]database.Message(nil), s.messages...)
}

// SeedMessage stores a message with the given timestamp.
func (s *MemoryStore) SeedMessage(sender, content string, at time.Time) {
	_, _ = s.CreateMessage(context.Background(), database.CreateMessageParams{
		Sender:    sender,
		Content:   content,
		CreatedAt: pgtype.Timestamptz{Time: at, Valid: true},
	})
}
