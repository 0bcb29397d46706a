package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"pin":           {},
	"password":      {},
	"channelkey":    {},
	"channel_key":   {},
	"authorization": {},
	"cardnumber":    {},
	"card_number":   {},
}

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(newLogger(os.Stdout, "json", "info"))
}

// Configure replaces the process logger. format is "json" or "pretty".
func Configure(format, level string) {
	current.Store(newLogger(os.Stdout, format, level))
}

// SetOutput redirects log output, used by tests.
func SetOutput(w io.Writer) {
	current.Store(newLogger(w, "json", "debug"))
}

func newLogger(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "pretty") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog exposes the underlying logger for libraries that accept one.
func Slog() *slog.Logger {
	return current.Load()
}

func Info(message string, fields Fields) {
	current.Load().Info(message, attrs(fields)...)
}

func Warn(message string, fields Fields) {
	current.Load().Warn(message, attrs(fields)...)
}

func Error(message string, err error, fields Fields) {
	base := Fields{}
	for k, v := range fields {
		base[k] = v
	}
	if err != nil {
		base["error"] = err.Error()
	}

	current.Load().Error(message, attrs(base)...)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func attrs(fields Fields) []any {
	if len(fields) == 0 {
		return nil
	}

	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return nil
	}

	out := make([]any, 0, len(sanitized))
	for k, v := range sanitized {
		out = append(out, slog.Any(k, v))
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
