package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/polkiloo/posledger/internal/config"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New(&config.Config{LogLevel: slog.LevelInfo})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}
}

func TestLoggerHonoursLevelAndServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, slog.LevelWarn)

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	l.Warn("kept")
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if record["msg"] != "kept" || record["service"] != "posledger" {
		t.Fatalf("unexpected record %v", record)
	}
}
