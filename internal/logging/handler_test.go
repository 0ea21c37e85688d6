package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestHandlerWritesAttrsAndGroups(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.With("conn", "c1").WithGroup("draft").Info("question added", "index", 3)

	out := buf.String()
	assert.Contains(t, out, "INFO: question added")
	assert.Contains(t, out, "conn=c1")
	assert.Contains(t, out, "draft.index=3")
}

func TestHandlerFiltersByLevel(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", slog.Group("quiz", "id", "7"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN: shown")
	assert.Contains(t, buf.String(), "quiz.id=7")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
