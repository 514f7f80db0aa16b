package logger

import (
	"log/slog"
	"os"
	"runtime/debug"
)

// Logger emits JSON log lines tagged with the service name and hostname.
type Logger struct {
	handler *slog.Logger
}

func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		handler: handler.With(
			slog.String("service", service),
			slog.String("hostname", hostname),
		),
	}
}

func (l *Logger) Info(action, message string, args ...any) {
	l.handler.Info(message, append([]any{slog.String("action", action)}, args...)...)
}

func (l *Logger) Debug(action, message string, args ...any) {
	l.handler.Debug(message, append([]any{slog.String("action", action)}, args...)...)
}

// Error logs the error with a stack trace. The stack stays server-side;
// clients only ever see the envelope message.
func (l *Logger) Error(action, message string, err error, args ...any) {
	attrs := []any{
		slog.String("action", action),
		slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", string(debug.Stack())),
		),
	}
	l.handler.Error(message, append(attrs, args...)...)
}
