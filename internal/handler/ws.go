package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/johndosdos/campus-connect/internal"
	"github.com/johndosdos/campus-connect/internal/auth"
	ws "github.com/johndosdos/campus-connect/internal/websocket"
)

// UserLookup resolves a user ID taken from a validated token.
type UserLookup interface {
	Lookup(ctx context.Context, userID uuid.UUID) (auth.User, error)
}

// ServeWs handles the client's websocket connection upgrade. Browsers may
// connect from the server's own host or one matching originPatterns. The
// token comes from the "token" query parameter; a missing or invalid token
// closes the socket with a policy violation.
func ServeWs(h *ws.Hub, tokens internal.TokenValidator, users UserLookup, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to upgrade connection to WebSocket", slog.Any("error", err))
			return
		}

		user, err := authenticate(ctx, r.URL.Query().Get("token"), tokens, users)
		if err != nil {
			slog.InfoContext(ctx, "rejected websocket connection", slog.Any("error", err))
			conn.Close(websocket.StatusPolicyViolation, "invalid authentication credentials")
			return
		}

		c := ws.NewClient(conn, user, h)
		if !c.Join(ctx) {
			conn.Close(websocket.StatusTryAgainLater, "server shutting down")
			return
		}

		slog.InfoContext(ctx, "client connected",
			slog.String("user_id", user.ID.String()),
			slog.String("sender", user.DisplayName()))

		// We block on c.ReadMessage() because the request context will be canceled as soon
		// we return from the ServeWs() handler.
		go c.WriteMessage(ctx)
		c.ReadMessage(ctx)

		slog.InfoContext(ctx, "client disconnected",
			slog.String("user_id", user.ID.String()))
	}
}

func authenticate(ctx context.Context, token string, tokens internal.TokenValidator, users UserLookup) (auth.User, error) {
	if token == "" {
		return auth.User{}, errMissingToken
	}

	userID, err := tokens.ValidateJWT(token)
	if err != nil {
		return auth.User{}, err
	}

	return users.Lookup(ctx, userID)
}
