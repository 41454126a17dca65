package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/johndosdos/campus-connect/internal/auth"
)

func TestMiddleware(t *testing.T) {
	tokens := auth.NewTokenIssuer("middleware-secret", "campus-connect", 5*time.Minute)
	userID := uuid.New()

	valid, err := tokens.MakeJWT(userID)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	expired, err := auth.MakeJWT(userID, "campus-connect", "middleware-secret", -1*time.Second)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	tests := []struct {
		Name              string
		header            string
		cookie            string
		wantHandlerCalled bool
		wantCode          int
	}{
		{"valid_header", "Bearer " + valid, "", true, http.StatusOK},
		{"lowercase_scheme", "bearer " + valid, "", true, http.StatusOK},
		{"valid_cookie", "", valid, true, http.StatusOK},
		{"expired_JWT", "Bearer " + expired, "", false, http.StatusUnauthorized},
		{"email_token", "Bearer student1@srm.edu.in", "", false, http.StatusUnauthorized},
		{"basic_scheme", "Basic " + valid, valid, false, http.StatusUnauthorized},
		{"empty", "", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/search?keyword=hi", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			isHandlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				isHandlerCalled = true
				gotUserID, err := auth.GetUserFromContext(r.Context())
				assert.NoError(t, err)
				assert.Equal(t, userID, gotUserID)
				w.WriteHeader(http.StatusOK)
			})

			Middleware(tokens)(nextHandler).ServeHTTP(rec, req)

			if isHandlerCalled != tt.wantHandlerCalled {
				t.Errorf("handler called = %v, want %v", isHandlerCalled, tt.wantHandlerCalled)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("want %d, got %d", tt.wantCode, rec.Code)
			}
			if rec.Code == http.StatusUnauthorized {
				assert.JSONEq(t, `{"detail":"Invalid authentication credentials"}`, rec.Body.String())
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
