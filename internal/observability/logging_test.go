package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithStage(ctx, "classify")
	ctx = WithSource(ctx, "./docs")

	assert.Equal(t, LogContext{RunID: "run-1", Stage: "classify", Source: "./docs"}, FromContext(ctx))

	later := WithStage(ctx, "publish")
	assert.Equal(t, "publish", FromContext(later).Stage)
	assert.Equal(t, "run-1", FromContext(later).RunID)
	assert.Equal(t, "classify", FromContext(ctx).Stage)
}

func TestEmptyContext(t *testing.T) {
	assert.Equal(t, LogContext{}, FromContext(context.Background()))
	assert.Empty(t, LogContext{}.attrs())
}

func TestHandlerAddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := WithStage(WithRunID(context.Background(), "run-2"), "convert")

	logger.InfoContext(ctx, "info message", slog.Int("count", 3))
	logger.DebugContext(ctx, "debug message")
	logger.With("component", "product").WarnContext(ctx, "warn message")
	logger.Info("no context")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	for _, line := range lines[:3] {
		assert.Contains(t, string(line), "run_id=run-2")
		assert.Contains(t, string(line), "stage=convert")
	}
	assert.Contains(t, string(lines[0]), "count=3")
	assert.Contains(t, string(lines[2]), "component=product")
	assert.NotContains(t, string(lines[3]), "run_id")
}

func TestLoggerDoesNotWrapTwice(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	wrapped := Logger(base)
	assert.Same(t, wrapped, Logger(wrapped))
	assert.Same(t, wrapped.Handler(), NewHandler(wrapped.Handler()))
}

func TestBind(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	assert.Same(t, base, Bind(context.Background(), base))

	ctx := WithSource(WithRunID(context.Background(), "run-3"), "https://git.example.org/docs.git")
	Bind(ctx, base).Info("hello")
	assert.Contains(t, buf.String(), "run_id=run-3")
	assert.Contains(t, buf.String(), "source=https://git.example.org/docs.git")
}
