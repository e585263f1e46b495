// Package logger builds the process-wide zap logger and carries request
// ids through contexts so per-request log lines correlate.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Config holds just the two knobs the service exposes; it deliberately
// does not depend on the config package so any package may construct one.
type Config struct {
	Level    string
	Encoding string
}

// New builds a production zap logger writing to stdout. An unparseable
// level falls back to info rather than failing startup.
func New(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		level,
	)

	return zap.New(core, zap.AddCaller()), nil
}

// ContextWithRequestID stores a request id for later correlation.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithRequestID returns base annotated with the context's request id, or
// base unchanged when none is set.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	if reqID, ok := ctx.Value(requestIDKey).(string); ok && reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	return base
}
