package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craft.log")

	logger, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Named("engine").Debug("cost computed", Product("COMP0001"), Material("M001"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"logger":"engine"`, `"product_id":"COMP0001"`, `"material_id":"M001"`, `"timestamp"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %s: %s", want, line)
		}
	}
}

func TestNewLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(Config{Level: tt.level, Format: "console", Output: "stderr"})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if !logger.Core().Enabled(tt.want) {
				t.Errorf("expected %s enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
				t.Errorf("expected %s disabled", tt.want-1)
			}
		})
	}
}

func TestNewBadOutput(t *testing.T) {
	_, err := New(Config{Level: "info", Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	if err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}

func TestInitializeReplacesGlobal(t *testing.T) {
	orig, origSugar := Logger, Sugar
	t.Cleanup(func() { Logger, Sugar = orig, origSugar })

	if err := Initialize(Config{Level: "error", Format: "json", Output: "stderr"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if Logger == orig {
		t.Error("global logger was not replaced")
	}
	if Named("api").Core().Enabled(zap.WarnLevel) {
		t.Error("warn should be disabled at error level")
	}
}
