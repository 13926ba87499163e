package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	actorIDKey
)

// scoped lists the context values FromContext attaches, in output order
var scoped = []struct {
	key  ctxKey
	attr string
}{
	{requestIDKey, AttrKeyRequestID},
	{actorIDKey, AttrKeyActorID},
}

// InitLogger configures the process-wide slog default from cfg, writing to stdout.
func InitLogger(cfg Config) {
	InitLoggerWithWriter(cfg, os.Stdout)
}

// InitLoggerWithWriter configures the slog default to write to w.
func InitLoggerWithWriter(cfg Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler.WithAttrs(cfg.BaseAttributes())))
}

// GenerateRequestID creates a new UUID for tracing requests.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID tags ctx with the id of the inbound request
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithActor tags ctx with the admin performing a call
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// GetRequestID returns the request ID or an empty string.
func GetRequestID(ctx context.Context) string {
	return value(ctx, requestIDKey)
}

func value(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// FromContext returns the default logger carrying whichever scoped ids ctx holds
func FromContext(ctx context.Context) *slog.Logger {
	var args []any
	for _, s := range scoped {
		if v := value(ctx, s.key); v != "" {
			args = append(args, s.attr, v)
		}
	}
	if len(args) == 0 {
		return slog.Default()
	}
	return slog.Default().With(args...)
}
