package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(int(slog.LevelInfo), &buf)

	l.Debug("hidden")
	l.Info("shown", "book_id", "42")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "book_id=42")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(0, &buf).With("component", "books")

	l.Info("created")

	assert.Contains(t, buf.String(), "component=books")
}
