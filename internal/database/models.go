package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Message struct {
	ID        int64
	UserID    pgtype.UUID
	Sender    string
	Content   string
	CreatedAt pgtype.Timestamptz
}

type User struct {
	UserID         pgtype.UUID
	Email          string
	FullName       string
	HashedPassword pgtype.Text
	CreatedAt      pgtype.Timestamptz
}
