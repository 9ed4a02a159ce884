package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerFormatsOutput(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		level      string
		assertions func(t *testing.T, output string)
	}{
		{
			name:   "json format carries the message field",
			format: "json",
			level:  "info",
			assertions: func(t *testing.T, output string) {
				if !strings.HasPrefix(strings.TrimSpace(output), "{") {
					t.Fatalf("expected json output to start with '{', got %q", output)
				}
				if !strings.Contains(output, `"message":"hello"`) {
					t.Fatalf("expected json output to contain the message, got %q", output)
				}
			},
		},
		{
			name:   "console format renders the message",
			format: "console",
			level:  "debug",
			assertions: func(t *testing.T, output string) {
				if !strings.Contains(output, "hello") {
					t.Fatalf("expected console output to contain the message, got %q", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(t, func() {
				log := New(Config{Format: tt.format, Level: tt.level})
				log.Info().Msg("hello")
			})

			if output == "" {
				t.Fatalf("expected log output, got empty string")
			}

			tt.assertions(t, output)
		})
	}
}

func TestNewLoggerDropsEventsBelowLevel(t *testing.T) {
	output := captureStdout(t, func() {
		log := New(Config{Format: "json", Level: "error"})
		log.Info().Msg("quiet")
	})

	if strings.Contains(output, "quiet") {
		t.Fatalf("expected info event to be dropped at error level, got %q", output)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}

	return buf.String()
}
