package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config contains logger configuration.
type Config struct {
	// Level sets the logging level (debug, info, warn, error).
	Level string
	// Pretty enables human-readable console output with colors.
	Pretty bool
	// Output sets the output writer (defaults to os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Pretty: true,
		Output: os.Stderr,
	}
}

// LevelForVerbosity maps a run-settings verbosity to a level name.
// Debug output needs verbosity 1 or more.
func LevelForVerbosity(verbosity int) string {
	if verbosity >= 1 {
		return "debug"
	}
	return "info"
}

// New creates a new zerolog logger with the given configuration.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// TestLogger is the leveled message logger handed to discovery.
type TestLogger struct {
	log zerolog.Logger
}

// NewTestLogger wraps log.
func NewTestLogger(log zerolog.Logger) *TestLogger {
	return &TestLogger{log: log}
}

func (l *TestLogger) Info(msg string) {
	l.log.Info().Msg(msg)
}

func (l *TestLogger) Debug(msg string) {
	l.log.Debug().Msg(msg)
}

// Warning logs msg, attaching err as the error field when non-nil.
func (l *TestLogger) Warning(msg string, err error) {
	ev := l.log.Warn()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}

func (l *TestLogger) Error(msg string) {
	l.log.Error().Msg(msg)
}
