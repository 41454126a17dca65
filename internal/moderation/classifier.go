package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sentiment is a single label/score pair from a classifier.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Negative reports whether the label is the negative class.
func (s Sentiment) Negative() bool {
	return strings.EqualFold(s.Label, "NEGATIVE")
}

// HTTPClassifier calls a text-classification inference endpoint that takes
// {"inputs": text} and answers with label/score pairs, as served by
// Hugging Face style sentiment models.
type HTTPClassifier struct {
	url    string
	token  string
	client *http.Client
}

func NewHTTPClassifier(url, token string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

// Classify returns the highest scoring label for text.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return Sentiment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Sentiment{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return Sentiment{}, fmt.Errorf("internal/moderation: classifier request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Sentiment{}, fmt.Errorf("internal/moderation: classifier returned %s", res.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return Sentiment{}, fmt.Errorf("internal/moderation: failed to decode classifier response: %w", err)
	}

	return topSentiment(raw)
}

// topSentiment accepts both [{..}] and [[{..}]] response shapes.
func topSentiment(raw json.RawMessage) (Sentiment, error) {
	var flat []Sentiment
	if err := json.Unmarshal(raw, &flat); err != nil {
		var nested [][]Sentiment
		if err := json.Unmarshal(raw, &nested); err != nil {
			return Sentiment{}, fmt.Errorf("internal/moderation: unexpected classifier response: %w", err)
		}
		if len(nested) > 0 {
			flat = nested[0]
		}
	}

	if len(flat) == 0 {
		return Sentiment{}, errors.New("internal/moderation: classifier returned no labels")
	}

	best := flat[0]
	for _, s := range flat[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best, nil
}
