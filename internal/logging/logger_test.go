package logging_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"audiomate/internal/config"
	"audiomate/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("collection selected", logging.String(logging.FieldCollection, "Ambient"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "audiomate.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"collection":"Ambient"`) {
		t.Fatalf("expected JSON record in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-subject.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "registry").Info("clip added",
		logging.String(logging.FieldCollection, "Ambient"),
		logging.String(logging.FieldClip, "web:/rain.wav"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO  registry (Ambient): clip added") {
		t.Fatalf("expected subject prefix, got %q", line)
	}
	if !strings.Contains(line, "clip=web:/rain.wav") {
		t.Fatalf("expected clip attribute, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be folded into subject, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestTeeHandlerDuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer
	handler := logging.TeeHandler(
		slog.NewJSONHandler(&first, nil),
		nil,
		slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(handler).With("action", "PlayRandomClipFromAmbient")

	logger.Info("info only")
	logger.Warn("warned")

	if got := strings.Count(first.String(), "\n"); got != 2 {
		t.Fatalf("expected 2 records in first handler, got %d: %s", got, first.String())
	}
	if strings.Contains(second.String(), "info only") {
		t.Fatalf("second handler should filter info records, got %s", second.String())
	}
	if !strings.Contains(second.String(), "action=PlayRandomClipFromAmbient") {
		t.Fatalf("expected attrs propagated to second handler, got %s", second.String())
	}
}

func TestTeeHandlerWithoutHandlersIsNoop(t *testing.T) {
	if _, ok := logging.TeeHandler(nil).(logging.NoopHandler); !ok {
		t.Fatal("expected NoopHandler when no handlers are given")
	}
}

func TestWithSessionTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger, id := logging.WithSession(slog.New(slog.NewJSONHandler(&buf, nil)))
	if id == "" {
		t.Fatal("expected session id")
	}
	logger.With("extra", "value").Info("tick")

	output := buf.String()
	if !strings.Contains(output, `"session_id":"`+id+`"`) {
		t.Errorf("expected session_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Errorf("expected extra attr in output, got: %s", output)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "receiver missing", "receiver_unresolved",
		logging.String(logging.FieldErrorHint, "check atom uid"))

	output := buf.String()
	for _, want := range []string{`"event_type":"receiver_unresolved"`, `"error_hint":"check atom uid"`, `"impact":`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got: %s", want, output)
		}
	}
}

func TestJSONFileRecordsDurationsInMilliseconds(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("engine ticking", logging.Duration("interval", 1500*time.Millisecond))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "audiomate.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"interval_ms":1500`) {
		t.Fatalf("expected millisecond duration, got %q", content)
	}
	if !strings.Contains(string(content), `"ts":"`) {
		t.Fatalf("expected ts key, got %q", content)
	}
}
