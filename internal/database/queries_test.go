package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/campus-connect/internal/database"
	"github.com/johndosdos/campus-connect/internal/testutil"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, database.EscapeLike("100%"))
	assert.Equal(t, `a\_b`, database.EscapeLike("a_b"))
	assert.Equal(t, `c:\\temp`, database.EscapeLike(`c:\temp`))
	assert.Equal(t, "plain", database.EscapeLike("plain"))
}

func TestQueries(t *testing.T) {
	pool := testutil.DbInit(t)
	queries := database.New(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := queries.CreateUser(ctx, database.CreateUserParams{
		UserID:    pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Email:     "student1@srm.edu.in",
		FullName:  "Student One",
		CreatedAt: pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	})
	require.NoError(t, err)

	t.Run("get_user", func(t *testing.T) {
		byEmail, err := queries.GetUserByEmail(ctx, "student1@srm.edu.in")
		require.NoError(t, err)
		assert.Equal(t, user.UserID, byEmail.UserID)

		byID, err := queries.GetUserByID(ctx, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, "Student One", byID.FullName)
		assert.False(t, byID.HashedPassword.Valid)
	})

	t.Run("upsert_keeps_user_id", func(t *testing.T) {
		updated, err := queries.UpsertUser(ctx, database.UpsertUserParams{
			UserID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
			Email:          "student1@srm.edu.in",
			FullName:       "Student Uno",
			HashedPassword: pgtype.Text{String: "hash", Valid: true},
			CreatedAt:      pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
		})
		require.NoError(t, err)
		assert.Equal(t, user.UserID, updated.UserID)
		assert.Equal(t, "Student Uno", updated.FullName)
	})

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, content := range []string{"hello campus", "100% ready", "HELLO again", "bye"} {
		_, err := queries.CreateMessage(ctx, database.CreateMessageParams{
			UserID:    user.UserID,
			Sender:    "Student One",
			Content:   content,
			CreatedAt: pgtype.Timestamptz{Time: base.Add(time.Duration(i) * time.Minute), Valid: true},
		})
		require.NoError(t, err)
	}

	t.Run("recent_messages_oldest_first", func(t *testing.T) {
		msgs, err := queries.ListRecentMessages(ctx, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "HELLO again", msgs[0].Content)
		assert.Equal(t, "bye", msgs[1].Content)
	})

	t.Run("search_is_case_insensitive", func(t *testing.T) {
		msgs, err := queries.SearchMessages(ctx, "hello")
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "hello campus", msgs[0].Content)
	})

	t.Run("search_wildcards_are_literal", func(t *testing.T) {
		msgs, err := queries.SearchMessages(ctx, "%")
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "100% ready", msgs[0].Content)
	})
}
