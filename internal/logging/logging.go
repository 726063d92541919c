// Package logging sets up the diagnostic log. The terminal belongs to the
// UI, so logs go to a rotating file.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"github.com/nemukerja/nemukerja-tui/internal/model"
)

// ParseLevel maps a config value to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(levelString); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

// New builds a JSON logger writing to cfg.File with rotation. An empty
// File logs to stderr. The returned closer releases the file.
func New(cfg model.LogConfig, service string) (zerolog.Logger, io.Closer, error) {
	var out io.WriteCloser = nopCloser{os.Stderr}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), nil, err
		}
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     30, // Days
		}
	}

	return NewWithWriter(out, cfg.Level, service), out, nil
}

// NewWithWriter builds a logger on an arbitrary writer.
func NewWithWriter(w io.Writer, level, service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.
		New(w).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Level(ParseLevel(level))
}

// RedirectStdLog sends the standard library logger through l.
func RedirectStdLog(l zerolog.Logger) {
	log.SetFlags(0)
	log.SetOutput(l)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
