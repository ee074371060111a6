package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptureLogger(buf *bytes.Buffer) *slog.Logger {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: redactAttr,
	})
	return slog.New(handler)
}

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestRedactsPIIKeys(t *testing.T) {
	var buf bytes.Buffer
	log := newCaptureLogger(&buf)

	log.Info("consent recorded",
		"user_id", "123e4567-e89b-12d3-a456-426614174000",
		"email", "user@example.com",
		"request_id", "req-1",
		"outcome", "success",
	)

	entry := logLine(t, &buf)
	assert.Equal(t, RedactedValue, entry["user_id"])
	assert.Equal(t, RedactedValue, entry["email"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "success", entry["outcome"])
}

func TestRedactionIsCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	log := newCaptureLogger(&buf)

	log.Info("event", "User_ID", "u1", "IP_Address", "203.0.113.7")

	entry := logLine(t, &buf)
	assert.Equal(t, RedactedValue, entry["User_ID"])
	assert.Equal(t, RedactedValue, entry["IP_Address"])
}

func TestRedactsNestedGroups(t *testing.T) {
	var buf bytes.Buffer
	log := newCaptureLogger(&buf)

	log.Info("event", slog.Group("client",
		slog.String("user_agent", "Mozilla/5.0"),
		slog.String("ua_hash", "abc123"),
	))

	entry := logLine(t, &buf)
	client, ok := entry["client"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, RedactedValue, client["user_agent"])
	assert.Equal(t, "abc123", client["ua_hash"])
}

func TestHashedValuesPassThrough(t *testing.T) {
	var buf bytes.Buffer
	log := newCaptureLogger(&buf)

	log.Info("event", "ip_hash", "deadbeef", "user_hash", "cafef00d")

	entry := logLine(t, &buf)
	assert.Equal(t, "deadbeef", entry["ip_hash"])
	assert.Equal(t, "cafef00d", entry["user_hash"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
