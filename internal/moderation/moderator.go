// Package moderation decides whether a chat message may be broadcast.
package moderation

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Reason explains why a message was flagged.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonBannedWord Reason = "banned_word"
	ReasonNegative   Reason = "negative_sentiment"
)

// Verdict is the outcome of a moderation check.
type Verdict struct {
	Flagged bool
	Reason  Reason
	Match   string
}

// Classifier scores the sentiment of a text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

type Moderator struct {
	matcher    *goahocorasick.Machine
	classifier Classifier
	threshold  float64
}

// NewModerator builds the banned-word automaton. classifier may be nil.
func NewModerator(bannedWords []string, classifier Classifier, threshold float64) (*Moderator, error) {
	m := &Moderator{classifier: classifier, threshold: threshold}

	patterns := normalizePatterns(bannedWords)
	if len(patterns) == 0 {
		return m, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	m.matcher = machine

	return m, nil
}

// Check flags content that contains a banned word, or that the classifier
// labels NEGATIVE with a score above the threshold. A classifier failure is
// logged and does not flag the message.
func (m *Moderator) Check(ctx context.Context, content string) Verdict {
	if word, ok := m.bannedWord(content); ok {
		return Verdict{Flagged: true, Reason: ReasonBannedWord, Match: word}
	}

	if m.classifier == nil {
		return Verdict{}
	}

	sentiment, err := m.classifier.Classify(ctx, content)
	if err != nil {
		slog.WarnContext(ctx, "sentiment classifier unavailable",
			slog.Any("error", err))
		return Verdict{}
	}

	if sentiment.Negative() && sentiment.Score > m.threshold {
		return Verdict{Flagged: true, Reason: ReasonNegative, Match: sentiment.Label}
	}

	return Verdict{}
}

func (m *Moderator) bannedWord(content string) (string, bool) {
	if m.matcher == nil || content == "" {
		return "", false
	}

	terms := m.matcher.MultiPatternSearch([]rune(strings.ToLower(content)), true)
	if len(terms) == 0 {
		return "", false
	}

	return string(terms[0].Word), true
}

// normalizePatterns lowercases, trims, dedupes and sorts the word list.
func normalizePatterns(words []string) [][]rune {
	seen := make(map[string]struct{}, len(words))
	uniq := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimFunc(strings.ToLower(w), unicode.IsSpace)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		uniq = append(uniq, w)
	}
	sort.Strings(uniq)

	patterns := make([][]rune, len(uniq))
	for i, w := range uniq {
		patterns[i] = []rune(w)
	}
	return patterns
}
