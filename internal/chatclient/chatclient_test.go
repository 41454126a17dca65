package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/campus-connect/internal/model"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   model.Outbound
		wantOK bool
	}{
		{"plain", "hello", model.Outbound{Content: "hello"}, true},
		{"trimmed", "  hello there \n", model.Outbound{Content: "hello there"}, true},
		{"empty", "", model.Outbound{}, false},
		{"whitespace_only", " \t\n ", model.Outbound{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compose(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t,
		Line{Text: "Student One [2025-02-03T10:00:00.000000Z]: hi"},
		Render(model.Frame{Sender: "Student One", Content: "hi", Timestamp: "2025-02-03T10:00:00.000000Z"}))

	assert.Equal(t,
		Line{Alert: true, Text: "Message flagged as inappropriate."},
		Render(model.ErrorFrame("Message flagged as inappropriate.")))
}

func TestSocketURL(t *testing.T) {
	got, err := socketURL("http://localhost:8000/", "a b")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8000/ws/chat?token=a+b", got)

	got, err = socketURL("https://chat.example.com", "tok")
	require.NoError(t, err)
	assert.Equal(t, "wss://chat.example.com/ws/chat?token=tok", got)

	_, err = socketURL("ftp://example.com", "tok")
	assert.Error(t, err)
}

// echoServer answers every outbound frame with a broadcast frame, and rejects
// the token "bad" with a policy violation.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()

		if r.URL.Path != "/ws/chat" || r.URL.Query().Get("token") == "bad" {
			conn.Close(websocket.StatusPolicyViolation, "invalid authentication credentials")
			return
		}

		ctx := r.Context()
		for {
			var in model.Outbound
			if err := wsjson.Read(ctx, conn, &in); err != nil {
				return
			}
			out := model.Frame{Sender: "Student One", Content: in.Content, Timestamp: "2025-02-03T10:00:00.000000Z"}
			if err := wsjson.Write(ctx, conn, out); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSession(t *testing.T) {
	srv := echoServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Dial(ctx, srv.URL, "good")
	require.NoError(t, err)
	defer s.Close()

	sent, err := s.Send(ctx, "   ")
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = s.Send(ctx, "  hello  ")
	require.NoError(t, err)
	assert.True(t, sent)

	f, err := s.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", f.Content)
	assert.Equal(t, "Student One", f.Sender)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestSession_Unauthorized(t *testing.T) {
	srv := echoServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Dial(ctx, srv.URL, "bad")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Receive(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func apiServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PostFormValue("username") != "student1@srm.edu.in" || r.PostFormValue("password") != "password1" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]model.Frame{
			"results": {{Sender: "Student One", Content: "exam " + r.URL.Query().Get("keyword"), Timestamp: "2025-02-03T10:00:00.000000Z"}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := apiServer(t)
	ctx := context.Background()

	token, err := Login(ctx, srv.URL, "student1@srm.edu.in", "password1")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = Login(ctx, srv.URL, "student1@srm.edu.in", "nope")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Incorrect email or password", apiErr.Detail)
}

func TestSearch(t *testing.T) {
	srv := apiServer(t)
	ctx := context.Background()

	results, err := Search(ctx, srv.URL, "tok", "monday")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "exam monday", results[0].Content)

	_, err = Search(ctx, srv.URL, "wrong", "monday")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
