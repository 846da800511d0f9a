package logging

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler forwards ERROR+ log records to Sentry. Delivery is
// best-effort; the handler never fails the logging call.
type SentryHandler struct {
	attrs []slog.Attr
}

func NewSentryHandler() *SentryHandler {
	return &SentryHandler{}
}

func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *SentryHandler) Handle(_ context.Context, record slog.Record) error {
	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	event.Message = record.Message
	event.Extra = make(map[string]any)

	for _, a := range h.attrs {
		event.Extra[a.Key] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		event.Extra[a.Key] = a.Value.Any()
		return true
	})

	sentry.CaptureEvent(event)
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &SentryHandler{attrs: merged}
}

func (h *SentryHandler) WithGroup(string) slog.Handler {
	return h
}
