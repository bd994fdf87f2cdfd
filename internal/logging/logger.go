package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// Format is console or json. Empty means console.
	Format string
	// Output receives every line. Nil means stderr.
	Output io.Writer
}

// New constructs a slog logger. Source locations are only attached at debug
// level.
func New(opts Options) (*slog.Logger, error) {
	level := slog.LevelInfo
	if name := strings.TrimSpace(opts.Level); name != "" {
		if err := level.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("log level: unsupported value %q", opts.Level)
		}
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	withSource := level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(&consoleHandler{mu: new(sync.Mutex), out: out, level: level, source: withSource}), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       level,
			AddSource:   withSource,
			ReplaceAttr: jsonAttr,
		})), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// RunLogName returns the per-run log file name for a run started at ts.
func RunLogName(ts time.Time, runID string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("run-%s-%s.log", ts.UTC().Format("20060102T150405Z"), short)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewFromConfig builds the logger for one command invocation. Lines go to
// stderr and, when logFile is set, are appended to logFile inside the
// configured log directory. The returned closer releases that file and must
// be closed once the run is over.
func NewFromConfig(cfg *config.Config, logFile string) (*slog.Logger, io.Closer, error) {
	if cfg == nil {
		logger, err := New(Options{})
		return logger, nopCloser{}, err
	}

	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr}
	var closer io.Closer = nopCloser{}
	if logFile = strings.TrimSpace(logFile); logFile != "" && cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure log directory: %w", err)
		}
		path := filepath.Join(cfg.Paths.LogDir, logFile)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open run log %s: %w", path, err)
		}
		opts.Output = io.MultiWriter(os.Stderr, file)
		closer = file
	}

	logger, err := New(opts)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return logger, closer, nil
}

func jsonAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(filepath.Base(src.File) + ":" + strconv.Itoa(src.Line))
		}
	}
	return attr
}

// consoleHandler writes one line per record:
//
//	2024-03-01T12:00:00Z INFO [abcdef01] dedup: group merged entity_id=42
//
// The run ID and component are lifted out of the attributes into the prefix.
type consoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     slog.Level
	source    bool
	runID     string
	component string
	fields    []byte
	group     string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	runID, component := h.runID, h.component
	fields := append([]byte(nil), h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = h.appendAttr(fields, h.group, attr, &runID, &component)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := make([]byte, 0, 96+len(fields))
	line = ts.UTC().AppendFormat(line, time.RFC3339)
	line = append(line, ' ')
	line = append(line, levelLabel(record.Level)...)
	line = append(line, ' ')
	if runID != "" {
		if len(runID) > 8 {
			runID = runID[:8]
		}
		line = append(line, '[')
		line = append(line, runID...)
		line = append(line, "] "...)
	}
	if component != "" {
		line = append(line, component...)
		line = append(line, ": "...)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	line = append(line, msg...)
	if h.source && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		if frame.File != "" {
			line = fmt.Appendf(line, " [%s:%d]", filepath.Base(frame.File), frame.Line)
		}
	}
	line = append(line, fields...)
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = append([]byte(nil), h.fields...)
	for _, attr := range attrs {
		next.fields = next.appendAttr(next.fields, h.group, attr, &next.runID, &next.component)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

// appendAttr writes attr as " key=value", flattening groups into dotted keys.
// Top-level run_id and component attributes update the prefix instead.
func (h *consoleHandler) appendAttr(dst []byte, prefix string, attr slog.Attr, runID, component *string) []byte {
	value := attr.Value.Resolve()
	if prefix == "" {
		switch attr.Key {
		case FieldRunID:
			*runID = value.String()
			return dst
		case FieldComponent:
			*component = value.String()
			return dst
		}
	}
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, member := range value.Group() {
			dst = h.appendAttr(dst, inner, member, runID, component)
		}
		return dst
	}
	if attr.Key == "" {
		return dst
	}
	dst = append(dst, ' ')
	dst = append(dst, prefix...)
	dst = append(dst, attr.Key...)
	dst = append(dst, '=')
	return appendValue(dst, value)
}

func appendValue(dst []byte, v slog.Value) []byte {
	var s string
	if v.Kind() == slog.KindTime {
		s = v.Time().UTC().Format(time.RFC3339)
	} else {
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, s...)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
