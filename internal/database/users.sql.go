package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (user_id, email, full_name, hashed_password, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING user_id, email, full_name, hashed_password, created_at
`

type CreateUserParams struct {
	UserID         pgtype.UUID
	Email          string
	FullName       string
	HashedPassword pgtype.Text
	CreatedAt      pgtype.Timestamptz
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.UserID,
		arg.Email,
		arg.FullName,
		arg.HashedPassword,
		arg.CreatedAt,
	)
	var i User
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.FullName,
		&i.HashedPassword,
		&i.CreatedAt,
	)
	return i, err
}

const upsertUser = `-- name: UpsertUser :one
INSERT INTO users (user_id, email, full_name, hashed_password, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET full_name = EXCLUDED.full_name,
    hashed_password = EXCLUDED.hashed_password
RETURNING user_id, email, full_name, hashed_password, created_at
`

type UpsertUserParams struct {
	UserID         pgtype.UUID
	Email          string
	FullName       string
	HashedPassword pgtype.Text
	CreatedAt      pgtype.Timestamptz
}

func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error) {
	row := q.db.QueryRow(ctx, upsertUser,
		arg.UserID,
		arg.Email,
		arg.FullName,
		arg.HashedPassword,
		arg.CreatedAt,
	)
	var i User
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.FullName,
		&i.HashedPassword,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT user_id, email, full_name, hashed_password, created_at FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.FullName,
		&i.HashedPassword,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT user_id, email, full_name, hashed_password, created_at FROM users
WHERE user_id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, userID pgtype.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, userID)
	var i User
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.FullName,
		&i.HashedPassword,
		&i.CreatedAt,
	)
	return i, err
}
