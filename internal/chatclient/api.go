package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johndosdos/campus-connect/internal/model"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

type detailResponse struct {
	Detail string `json:"detail"`
}

// APIError is a non-2xx answer carrying the server's detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chatclient: %d: %s", e.Status, e.Detail)
}

// Login exchanges an email and password for an access token.
func Login(ctx context.Context, serverURL, email, password string) (string, error) {
	form := url.Values{"username": {email}, "password": {password}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(serverURL, "/")+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("chatclient: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := do(req, &body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", errors.New("chatclient: login response carried no token")
	}

	return body.AccessToken, nil
}

// Search returns the stored messages containing keyword.
func Search(ctx context.Context, serverURL, token, keyword string) ([]model.Frame, error) {
	u := strings.TrimRight(serverURL, "/") + "/search?" + url.Values{"keyword": {keyword}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("chatclient: build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var body struct {
		Results []model.Frame `json:"results"`
	}
	if err := do(req, &body); err != nil {
		return nil, err
	}

	return body.Results, nil
}

func do(req *http.Request, out any) error {
	res, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chatclient: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var d detailResponse
		_ = json.NewDecoder(res.Body).Decode(&d)
		if d.Detail == "" {
			d.Detail = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Detail: d.Detail}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("chatclient: decode response: %w", err)
	}
	return nil
}
