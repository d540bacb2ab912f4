package internal

import (
	"io"
	"log/slog"
	"strings"
)

func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func CalendarAttrs(provider ProviderKey, calendarID string) []any {
	attrs := []any{slog.String("provider", provider.String())}
	if calendarID != "" {
		attrs = append(attrs, slog.String("calendar_id", calendarID))
	}
	return attrs
}
