package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createMessage = `-- name: CreateMessage :one
INSERT INTO messages (user_id, sender, content, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, sender, content, created_at
`

type CreateMessageParams struct {
	UserID    pgtype.UUID
	Sender    string
	Content   string
	CreatedAt pgtype.Timestamptz
}

func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	row := q.db.QueryRow(ctx, createMessage,
		arg.UserID,
		arg.Sender,
		arg.Content,
		arg.CreatedAt,
	)
	var i Message
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Sender,
		&i.Content,
		&i.CreatedAt,
	)
	return i, err
}

const listRecentMessages = `-- name: ListRecentMessages :many
SELECT id, user_id, sender, content, created_at FROM (
    SELECT id, user_id, sender, content, created_at FROM messages
    ORDER BY created_at DESC, id DESC
    LIMIT $1
) recent
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListRecentMessages(ctx context.Context, limit int32) ([]Message, error) {
	rows, err := q.db.Query(ctx, listRecentMessages, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Message
	for rows.Next() {
		var i Message
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Sender,
			&i.Content,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const searchMessages = `-- name: SearchMessages :many
SELECT id, user_id, sender, content, created_at FROM messages
WHERE content ILIKE '%' || $1::text || '%'
ORDER BY created_at ASC, id ASC
`

// SearchMessages matches keyword as a literal, case-insensitive substring.
func (q *Queries) SearchMessages(ctx context.Context, keyword string) ([]Message, error) {
	rows, err := q.db.Query(ctx, searchMessages, EscapeLike(keyword))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Message
	for rows.Next() {
		var i Message
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Sender,
			&i.Content,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
