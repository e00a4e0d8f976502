package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// Format is the encoding of the primary (stderr) log stream.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --log-format value. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Newf("unknown log format %q", s)
	}
}

// Config describes the loggers built by New.
type Config struct {
	Level  slog.Level
	Format Format
	// Output receives the primary stream. Nil means os.Stderr.
	Output io.Writer
	// File, when set, receives a JSON copy of every record at the same level,
	// as written by --log-file.
	File io.Writer
}

// New builds the lighthub logger. Credential-looking keys are masked in
// every stream, and the file mirror is always JSON regardless of Format.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = newJSONHandler(out, cfg.Level)
	} else {
		h = NewHandler(out, &slog.HandlerOptions{Level: cfg.Level})
	}

	if cfg.File != nil {
		h = NewMultiHandler(h, newJSONHandler(cfg.File, cfg.Level))
	}
	return slog.New(h)
}

func newJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceJSONAttr,
	})
}

// replaceJSONAttr gives the JSON handler the same level names and masking as
// the text handler.
func replaceJSONAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelName(l))
		}
	}
	if ShouldMask(a.Key) && a.Value.Kind() != slog.KindGroup {
		return slog.String(a.Key, MaskValue(a.Value.Resolve().String()))
	}
	return a
}

// NewDiscard returns a logger that drops everything (--quiet in library code
// and tests that do not care about output).
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ForTest returns a debug-level logger whose output goes through t.Log, so it
// only shows for failing tests or under -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  slog.LevelDebug,
		Output: testWriter{t},
	})
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
