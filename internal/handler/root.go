package handler

import (
	"net/http"

	"github.com/a-h/templ"

	viewChat "github.com/johndosdos/campus-connect/components/chat"
)

// ServeRoot serves the chat page.
func ServeRoot(data viewChat.PageData) http.Handler {
	return templ.Handler(viewChat.ChatLayout(data))
}
