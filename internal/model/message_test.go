package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	ts := time.Date(2025, 3, 1, 17, 30, 0, 123456789, loc)

	assert.Equal(t, "2025-03-01T12:00:00.123456Z", FormatTimestamp(ts))
	assert.Equal(t, "2025-03-01T12:00:00.000000Z", FormatTimestamp(ts.Truncate(time.Second)))
}

func TestFrameJSON(t *testing.T) {
	t.Run("error_frame_has_only_error", func(t *testing.T) {
		b, err := json.Marshal(ErrorFrame("Message flagged as inappropriate."))
		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"Message flagged as inappropriate."}`, string(b))
	})

	t.Run("message_frame", func(t *testing.T) {
		msg := ChatMessage{
			Sender:    "Student One",
			Content:   "hello",
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		b, err := json.Marshal(msg.Frame())
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"sender":"Student One","content":"hello","timestamp":"2025-01-02T03:04:05.000000Z"}`,
			string(b))
	})

	t.Run("decode_error_frame", func(t *testing.T) {
		var f Frame
		require.NoError(t, json.Unmarshal([]byte(`{"error":"nope"}`), &f))
		assert.True(t, f.IsError())
	})
}
