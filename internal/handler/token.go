package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/johndosdos/campus-connect/internal/auth"
)

// TokenMaker issues bearer tokens.
type TokenMaker interface {
	MakeJWT(userID uuid.UUID) (string, error)
}

// PasswordLogin checks email/password sign-ins.
type PasswordLogin interface {
	Login(ctx context.Context, email, password string) (auth.User, error)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SubmitToken exchanges an email and password for a bearer token.
func SubmitToken(dir PasswordLogin, tokens TokenMaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid form data.")
			return
		}

		email := r.PostFormValue("username")
		password := r.PostFormValue("password")

		user, err := dir.Login(ctx, email, password)
		switch {
		case errors.Is(err, auth.ErrWrongDomain):
			writeDetail(w, http.StatusBadRequest, "Please sign in with your SRM email.")
			return
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeDetail(w, http.StatusBadRequest, "Incorrect email or password")
			return
		case err != nil:
			slog.ErrorContext(ctx, "login failed", slog.Any("error", err))
			writeDetail(w, http.StatusInternalServerError, "Server error.")
			return
		}

		token, err := tokens.MakeJWT(user.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to make JWT", slog.Any("error", err))
			writeDetail(w, http.StatusInternalServerError, "Server error.")
			return
		}

		slog.InfoContext(ctx, "user logged in",
			slog.String("email", user.Email))

		writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}
