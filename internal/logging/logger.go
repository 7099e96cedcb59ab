// Package logging provides the leveled CLI logger: colored console output via
// slog and tint, plus an optional plain-text file sink.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/backmassage/particlesheet/internal/config"
	"github.com/backmassage/particlesheet/internal/term"
)

// LevelSuccess sits between INFO and WARN and marks completed stages.
const LevelSuccess = slog.LevelInfo + 2

// Logger provides leveled, optionally colored logging with optional file sink.
// The printf-style methods keep call sites short; attributes attached with
// [Logger.With] are carried on every record.
type Logger struct {
	sl   *slog.Logger
	file *os.File
}

// NewLogger resolves the color mode, builds the console handler on stderr and
// optionally opens cfg.LogFile for appending. Call Close() when done if
// LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	color := term.Configure(cfg.ColorMode, os.Stderr)
	return newLogger(os.Stderr, color, cfg)
}

func newLogger(console io.Writer, color bool, cfg *config.Config) (*Logger, error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		tint.NewHandler(console, &tint.Options{
			Level:       level,
			TimeFormat:  "15:04:05",
			NoColor:     !color,
			ReplaceAttr: consoleLevelNames(color),
		}),
	}

	l := &Logger{}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: fileLevelNames,
		}))
	}

	if len(handlers) == 1 {
		l.sl = slog.New(handlers[0])
	} else {
		l.sl = slog.New(fanout(handlers))
	}
	return l, nil
}

// consoleLevelNames renders every level as a three-letter tag colored the
// way the CLI always has (INFO blue, OK green, WARN yellow, ERROR red), which
// also gives LevelSuccess a name instead of tint's default "INF+2".
func consoleLevelNames(color bool) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 || a.Key != slog.LevelKey {
			return a
		}
		lvl, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		tag, c := "DBG", ""
		switch {
		case lvl >= slog.LevelError:
			tag, c = "ERR", term.Red
		case lvl >= slog.LevelWarn:
			tag, c = "WRN", term.Yellow
		case lvl >= LevelSuccess:
			tag, c = "OK", term.Green
		case lvl >= slog.LevelInfo:
			tag, c = "INF", term.Blue
		}
		if color && c != "" {
			tag = c + tag + term.NC
		}
		return slog.String(slog.LevelKey, tag)
	}
}

func fileLevelNames(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelSuccess {
		return slog.String(slog.LevelKey, "SUCCESS")
	}
	return a
}

// With returns a logger that adds args (slog key/value pairs) to every record.
// The returned logger shares the file sink; only the root logger should be closed.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{sl: l.sl.With(args...)}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) log(level slog.Level, format string, args []any) {
	ctx := context.Background()
	if !l.sl.Enabled(ctx, level) {
		return
	}
	l.sl.Log(ctx, level, fmt.Sprintf(format, args...))
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...any) { l.log(slog.LevelInfo, format, args) }

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...any) { l.log(LevelSuccess, format, args) }

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...any) { l.log(slog.LevelWarn, format, args) }

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...any) { l.log(slog.LevelError, format, args) }

// Debug logs at DEBUG level only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...any) {
	if !verbose {
		return
	}
	l.log(slog.LevelDebug, format, args)
}
