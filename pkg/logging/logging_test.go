package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tt := range tests {
		logger := New(Config{Level: tt.level})
		if logger.GetLevel() != tt.want {
			t.Fatalf("level %q: expected %s, got %s", tt.level, tt.want, logger.GetLevel())
		}
	}
}

func TestNewJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labdash.log")
	cfg := DefaultConfig()
	cfg.Level = "info"
	cfg.Format = "json"
	cfg.File = path

	logger := New(cfg)
	logger.WithField("entity", "qc").Info("loaded")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"loaded"`) || !strings.Contains(out, `"entity":"qc"`) {
		t.Fatalf("unexpected log output %q", out)
	}
}
