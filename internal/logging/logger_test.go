package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
)

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	name := logging.RunLogName(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "0123456789abcdef")
	if name != "run-20240301T120000Z-01234567.log" {
		t.Fatalf("unexpected run log name %q", name)
	}

	logger, closer, err := logging.NewFromConfig(&cfg, name)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("run started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close run log: %v", err)
	}
	if err := closer.Close(); err == nil {
		t.Fatal("expected second close of the run log file to fail")
	}

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, name))
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	if !strings.Contains(string(content), "run started") {
		t.Fatalf("expected message in run log, got %q", content)
	}
}

func TestNewFromConfigWithoutRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, closer, err := logging.NewFromConfig(&cfg, "")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	entries, err := os.ReadDir(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no run log, got %d files", len(entries))
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerAddsCallerAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerPrefixesRunAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "abcdef0123456789")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "dedup")).Info("group merged", logging.EntityID(42))

	line := buf.String()
	for _, want := range []string{"INFO [abcdef01] dedup: group merged", "entity_id=42"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "run_id=") || strings.Contains(line, "component=") {
		t.Fatalf("expected run and component only in the prefix, got %q", line)
	}
}

func TestConsoleLoggerFlattensGroupsAndQuotes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("merge").Info("club deleted", logging.Club(7, "Den Haag GFC"), logging.String("reason", ""))

	line := buf.String()
	for _, want := range []string{`merge.club.id=7`, `merge.club.name="Den Haag GFC"`, `merge.reason=""`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", logging.Int("count", 2))

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("expected info line to be filtered, got %q", out)
	}
	for _, want := range []string{`"ts":"`, `"level":"warn"`, `"msg":"kept"`, `"count":2`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestNewRejectsUnknownFormatAndLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := logging.New(logging.Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "merge skipped", "merge_skipped", logging.String(logging.FieldImpact, "duplicate remains"))

	out := buf.String()
	for _, want := range []string{`"event_type":"merge_skipped"`, `"error_hint":"check logs for details"`, `"impact":"duplicate remains"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestPruneRunLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "run-20200101T000000Z-aaaaaaaa.log")
	current := filepath.Join(dir, "run-20200102T000000Z-bbbbbbbb.log")
	other := filepath.Join(dir, "notes.log")
	for _, p := range []string{old, current, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
		stale := time.Now().AddDate(0, 0, -30)
		if err := os.Chtimes(p, stale, stale); err != nil {
			t.Fatalf("chtimes %s: %v", p, err)
		}
	}

	removed := logging.PruneRunLogs(logging.NewNop(), dir, 7, filepath.Base(current))
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expected stale run log to be removed")
	}
	for _, p := range []string{current, other} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to remain: %v", p, err)
		}
	}
}
