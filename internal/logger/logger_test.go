package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNopBeforeInit(t *testing.T) {
	Use(zap.NewNop())
	// Must not panic without Init.
	Info("discarded", zap.String("k", "v"))
	Sugar.Debugf("discarded %d", 1)
	Sync()
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "wireview.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("InitWithFileConfig() error = %v", err)
	}
	defer Use(zap.NewNop())

	line := strings.Repeat("v", 200)
	for i := 0; i < 8000; i++ {
		Sugar.Infof("vertex %d: %s", i, line)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var rotated int
	for _, e := range entries {
		name := e.Name()
		if name == "wireview.log" || !strings.HasPrefix(name, "wireview") {
			continue
		}
		rotated++
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s lacks a timestamp", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated log files")
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()
	defer Use(zap.NewNop())

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"WARN", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			if err := InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, false); err != nil {
				t.Fatalf("InitWithFileConfig() error = %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			for _, want := range tt.expected {
				if !strings.Contains(string(content), want) {
					t.Errorf("expected %s in log output", want)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output", exc)
				}
			}
		})
	}
}

func TestUseObserver(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	Use(zap.New(core))
	defer Use(zap.NewNop())

	Info("hidden")
	Warn("null node", zap.Int("depth", 2))

	if logs.Len() != 1 {
		t.Fatalf("observed %d entries, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "null node" || entry.ContextMap()["depth"] != int64(2) {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/wireview.log")

	if cfg.Path != "/tmp/wireview.log" {
		t.Errorf("Path = %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("rotation settings = %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
