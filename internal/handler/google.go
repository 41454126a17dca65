package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/johndosdos/campus-connect/internal"
	"github.com/johndosdos/campus-connect/internal/auth"
)

const oauthStateCookie = "oauth_state"

// OAuthProvider runs an authorization code flow.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (auth.GoogleUser, error)
}

// ExternalLogin registers users coming from an identity provider.
type ExternalLogin interface {
	EnsureUser(ctx context.Context, email, fullName string) (auth.User, error)
}

// ServeGoogleLogin redirects to the Google consent page.
func ServeGoogleLogin(provider OAuthProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := auth.NewState()

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/auth/google",
			MaxAge:   10 * 60,
			Secure:   r.TLS != nil,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
	}
}

// ServeGoogleCallback completes the Google sign-in and hands the page a token.
func ServeGoogleCallback(provider OAuthProvider, dir ExternalLogin, tokens TokenMaker, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			writeDetail(w, http.StatusBadRequest, "OAuth error: invalid state")
			return
		}

		if oauthErr := r.URL.Query().Get("error"); oauthErr != "" {
			writeDetail(w, http.StatusBadRequest, "OAuth error: "+oauthErr)
			return
		}

		googleUser, err := provider.Exchange(ctx, r.URL.Query().Get("code"))
		if err != nil {
			slog.WarnContext(ctx, "google exchange failed", slog.Any("error", err))
			writeDetail(w, http.StatusBadRequest, "Error processing user information.")
			return
		}

		user, err := dir.EnsureUser(ctx, googleUser.Email, googleUser.Name)
		if errors.Is(err, auth.ErrWrongDomain) {
			writeDetail(w, http.StatusBadRequest, "Only SRM email accounts are allowed.")
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to register google user", slog.Any("error", err))
			writeDetail(w, http.StatusInternalServerError, "Server error.")
			return
		}

		token, err := tokens.MakeJWT(user.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to make JWT", slog.Any("error", err))
			writeDetail(w, http.StatusInternalServerError, "Server error.")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    "",
			Path:     "/auth/google",
			MaxAge:   -1,
			HttpOnly: true,
		})
		http.SetCookie(w, &http.Cookie{
			Name:     internal.AccessTokenCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(tokenTTL.Seconds()),
			Secure:   r.TLS != nil,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		slog.InfoContext(ctx, "user logged in with google",
			slog.String("email", user.Email))

		http.Redirect(w, r, "/?token="+url.QueryEscape(token), http.StatusSeeOther)
	}
}
