package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		env, level string
		want       zerolog.Level
	}{
		{"production", "", zerolog.InfoLevel},
		{"development", "", zerolog.DebugLevel},
		{"production", "warn", zerolog.WarnLevel},
		{"production", "nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := Setup(tt.env, tt.level, &bytes.Buffer{}).GetLevel(); got != tt.want {
			t.Errorf("Setup(%q, %q) level = %s, want %s", tt.env, tt.level, got, tt.want)
		}
	}
}

func TestSetupWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("production", "", &buf)
	logger.Info().Str("track", "A").Msg("hello")
	if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "track") {
		t.Errorf("unexpected log output %q", buf.String())
	}
}
