package logger

import (
	"context"
	"log/slog"

	"github.com/solguard/scan-orchestrator/config"
	appContext "github.com/solguard/scan-orchestrator/pkg/context"
	"github.com/solguard/scan-orchestrator/pkg/jwt"
)

// ContextLogger provides context-aware logging functionality
type ContextLogger struct {
	*CoreLogger
}

// NewContextLogger creates a new context-aware logger
func NewContextLogger(cfg config.LoggerConfig) (*ContextLogger, error) {
	coreLogger, err := NewCoreLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &ContextLogger{CoreLogger: coreLogger}, nil
}

// FromContext extracts the logger from context and enriches it with trace ID
// and user ID when they are present
func (cl *ContextLogger) FromContext(ctx context.Context) *CoreLogger {
	var baseLogger *slog.Logger
	if ctxLogger := appContext.GetLogger(ctx); ctxLogger != nil {
		baseLogger = ctxLogger
	} else {
		baseLogger = cl.CoreLogger.Logger
	}

	logger := &CoreLogger{
		Logger: baseLogger,
		config: cl.config,
	}

	if traceID := appContext.GetTraceID(ctx); traceID != "" {
		logger = logger.WithTraceID(traceID)
	}
	if userID := extractUserIDFromContext(ctx); userID != "" {
		logger = logger.WithUserID(userID)
	}

	return logger
}

// SetInContext sets the logger in the context
func (cl *ContextLogger) SetInContext(ctx context.Context, logger *CoreLogger) context.Context {
	appContext.SetLogger(ctx, logger.Logger)
	return ctx
}

func extractUserIDFromContext(ctx context.Context) string {
	// JWT claims take precedence over plain context values
	if userClaims := ctx.Value(jwt.UserClaimKey); userClaims != nil {
		if claims, ok := userClaims.(*jwt.UserClaims); ok {
			return claims.UserID
		}
	}

	return appContext.GetUserID(ctx)
}

// Global instance management

var globalContextLogger *ContextLogger

// InitGlobalLogger initializes the global context logger
func InitGlobalLogger(cfg config.LoggerConfig) error {
	logger, err := NewContextLogger(cfg)
	if err != nil {
		return err
	}
	globalContextLogger = logger
	return nil
}

// GetGlobalLogger returns the global context logger instance
func GetGlobalLogger() *ContextLogger {
	if globalContextLogger == nil {
		cfg := config.LoggerConfig{
			Level:  "info",
			Output: "stdout",
		}
		logger, err := NewContextLogger(cfg)
		if err != nil {
			panic("Failed to create default logger: " + err.Error())
		}
		globalContextLogger = logger
	}
	return globalContextLogger
}

// FromContext is a convenience function to get a logger from context using the
// global instance
func FromContext(ctx context.Context) *CoreLogger {
	return GetGlobalLogger().FromContext(ctx)
}

// SetInContext is a convenience function to set a logger in context using the
// global instance
func SetInContext(ctx context.Context, logger *CoreLogger) context.Context {
	return GetGlobalLogger().SetInContext(ctx, logger)
}

// Convenience functions for common logging patterns

// DebugContext logs a debug message using context
func DebugContext(ctx context.Context, msg string, args ...interface{}) {
	FromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message using context
func InfoContext(ctx context.Context, msg string, args ...interface{}) {
	FromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message using context
func WarnContext(ctx context.Context, msg string, args ...interface{}) {
	FromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message using context
func ErrorContext(ctx context.Context, msg string, args ...interface{}) {
	FromContext(ctx).Error(msg, args...)
}

// InfoContextWithFields logs an info message with additional fields using context
func InfoContextWithFields(ctx context.Context, msg string, fields map[string]interface{}) {
	FromContext(ctx).InfoWithFields(msg, fields)
}

// ErrorContextWithFields logs an error message with additional fields using context
func ErrorContextWithFields(ctx context.Context, msg string, fields map[string]interface{}) {
	FromContext(ctx).ErrorWithFields(msg, fields)
}
