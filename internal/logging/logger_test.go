package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chapterize/internal/config"
	"chapterize/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("startup", logging.String("phase", "test"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "chapterize.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "startup") {
		t.Fatalf("expected log line in file, got %q", content)
	}
}

func TestNewWritesJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "out.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("converted", logging.Int("chapters", 12))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, `"msg":"converted"`) {
		t.Fatalf("expected msg key in JSON output, got %q", line)
	}
	if !strings.Contains(line, `"chapters":12`) {
		t.Fatalf("expected attribute in JSON output, got %q", line)
	}
	if !strings.Contains(line, `"level":"info"`) {
		t.Fatalf("expected lowercase level in JSON output, got %q", line)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "out.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "dropped") {
		t.Fatalf("expected info line suppressed at warn level, got %q", content)
	}
	if !strings.Contains(string(content), "kept") {
		t.Fatalf("expected warn line in output, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestComponentLoggerTagsLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "out.log")

	base, err := logging.New(logging.Options{
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger := logging.NewComponentLogger(base, "stt")
	logger.Error("transcription failed", logging.Args(logging.Error(errors.New("boom")))...)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"component":"stt"`) {
		t.Fatalf("expected component attribute, got %q", content)
	}
	if !strings.Contains(string(content), "boom") {
		t.Fatalf("expected error attribute, got %q", content)
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "detector")
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("silently discarded")
}
