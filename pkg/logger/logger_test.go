package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)
	return entry
}

func TestNew_TagsServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("review-service", "info", &buf)

	log.Info("hello")

	entry := logLine(t, &buf)
	assert.Equal(t, "review-service", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("review-service", "warn", &buf)

	log.Info("suppressed")
	assert.Empty(t, buf.String())

	log.Warn("emitted")
	assert.Contains(t, buf.String(), "emitted")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("review-service", "bogus", &buf)

	log.Debug("suppressed")
	assert.Empty(t, buf.String())

	log.Info("emitted")
	assert.Contains(t, buf.String(), "emitted")
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-123")
	assert.Equal(t, "corr-123", CorrelationIDFromContext(ctx))
}

func TestCorrelationID_MissingIsEmpty(t *testing.T) {
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestUserID_RoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-9")
	assert.Equal(t, "user-9", UserIDFromContext(ctx))
}

func TestLoggerContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("review-service", "info", &buf)

	ctx := NewContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
