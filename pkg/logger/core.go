package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/solguard/scan-orchestrator/config"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

type OutputType string

const (
	OutputStdout OutputType = "stdout"
	OutputFile   OutputType = "file"
)

// CoreLogger wraps slog with the service logging conventions: JSON records,
// printf-style convenience methods and trace/user enrichment.
type CoreLogger struct {
	*slog.Logger
	config config.LoggerConfig
}

func NewCoreLogger(cfg config.LoggerConfig) (*CoreLogger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", cfg.Level, err)
	}

	var writer io.Writer
	switch parseOutputType(cfg.Output) {
	case OutputFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file path is required when output is set to 'file'")
		}
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", cfg.Path, err)
		}
		writer = file
	default:
		writer = os.Stdout
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return &CoreLogger{Logger: slog.New(handler), config: cfg}, nil
}

func (l *CoreLogger) derive(logger *slog.Logger) *CoreLogger {
	return &CoreLogger{Logger: logger, config: l.config}
}

// WithTraceID returns a logger that stamps every record with the trace id
func (l *CoreLogger) WithTraceID(traceID string) *CoreLogger {
	if traceID == "" {
		return l
	}
	return l.derive(l.Logger.With("trace_id", traceID))
}

// WithUserID returns a logger that stamps every record with the user id
func (l *CoreLogger) WithUserID(userID string) *CoreLogger {
	if userID == "" {
		return l
	}
	return l.derive(l.Logger.With("user_id", userID))
}

// WithFields returns a logger carrying the extra fields on every record
func (l *CoreLogger) WithFields(fields map[string]interface{}) *CoreLogger {
	logger := l.Logger
	for key, value := range fields {
		logger = logger.With(key, value)
	}
	return l.derive(logger)
}

// Printf-style level methods

func (l *CoreLogger) Debug(msg string, args ...interface{}) {
	l.Logger.Debug(fmt.Sprintf(msg, args...))
}

func (l *CoreLogger) Info(msg string, args ...interface{}) {
	l.Logger.Info(fmt.Sprintf(msg, args...))
}

func (l *CoreLogger) Warn(msg string, args ...interface{}) {
	l.Logger.Warn(fmt.Sprintf(msg, args...))
}

func (l *CoreLogger) Error(msg string, args ...interface{}) {
	l.Logger.Error(fmt.Sprintf(msg, args...))
}

func (l *CoreLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.WithFields(fields).Logger.Info(msg)
}

func (l *CoreLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.WithFields(fields).Logger.Warn(msg)
}

func (l *CoreLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.WithFields(fields).Logger.Error(msg)
}

// Fatal logs the message and terminates the process
func (l *CoreLogger) Fatal(msg string, args ...interface{}) {
	l.Logger.Error(fmt.Sprintf("FATAL: "+msg, args...))
	os.Exit(1)
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level: %s", level)
	}
}

func parseOutputType(output string) OutputType {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "file":
		return OutputFile
	default:
		return OutputStdout
	}
}
