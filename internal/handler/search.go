package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/johndosdos/campus-connect/internal/auth"
	"github.com/johndosdos/campus-connect/internal/database"
	"github.com/johndosdos/campus-connect/internal/model"
)

// MessageSearcher looks up stored messages.
type MessageSearcher interface {
	SearchMessages(ctx context.Context, keyword string) ([]database.Message, error)
}

type searchResponse struct {
	Results []model.Frame `json:"results"`
}

// ServeSearch returns every stored message containing the keyword. It runs
// behind the auth middleware; a token whose user no longer exists is
// rejected.
func ServeSearch(db MessageSearcher, users UserLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := auth.GetUserFromContext(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "search reached without a user", slog.Any("error", err))
			writeUnauthorized(w)
			return
		}

		user, err := users.Lookup(ctx, userID)
		if errors.Is(err, auth.ErrUserNotFound) {
			writeUnauthorized(w)
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to look up user", slog.Any("error", err))
			writeDetail(w, http.StatusInternalServerError, "Database error.")
			return
		}

		keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
		if keyword == "" {
			writeDetail(w, http.StatusBadRequest, "The keyword query parameter is required.")
			return
		}

		messages, err := db.SearchMessages(ctx, keyword)
		if err != nil {
			slog.ErrorContext(ctx, "failed to search messages", slog.Any("error", err))
			writeDetail(w, http.StatusInternalServerError, "Database error.")
			return
		}

		slog.DebugContext(ctx, "message search",
			slog.String("user_id", user.ID.String()),
			slog.Int("results", len(messages)))

		results := lo.Map(messages, func(msg database.Message, _ int) model.Frame {
			return model.ChatMessage{
				Sender:    msg.Sender,
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt.Time,
			}.Frame()
		})

		writeJSON(w, http.StatusOK, searchResponse{Results: results})
	}
}
