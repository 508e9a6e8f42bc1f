package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_JSONIncludesServiceAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: DEBUG, Format: JSON, Output: &buf, Service: "appointments"})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	log.WithContext(ctx).Info("hello", "k", "v")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	if entry[SERVICE] != "appointments" {
		t.Errorf("expected service attr, got %v", entry[SERVICE])
	}
	if entry[REQUEST_ID] != "req-123" {
		t.Errorf("expected request_id attr, got %v", entry[REQUEST_ID])
	}
	if entry["k"] != "v" {
		t.Errorf("expected k=v, got %v", entry["k"])
	}
}

func TestWithContext_NoRequestID(t *testing.T) {
	log := New(Config{Output: &bytes.Buffer{}})
	if got := log.WithContext(context.Background()); got != log {
		t.Error("expected the same logger when no request id is present")
	}
	if RequestIDFrom(nil) != EMPTY {
		t.Error("expected empty request id for nil context")
	}
}
