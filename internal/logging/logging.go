// Package logging builds the process logger: JSON to stdout, optionally teed
// to a Better Stack (Logtail) ingest endpoint.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/calebds/pagetext/internal/config"
)

// Setup returns the process logger and a shutdown func that flushes the
// remote sink. Without a source token only the console handler is installed.
func Setup(cfg config.LoggingConfig) (*slog.Logger, func()) {
	console := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.LogtailToken == "" {
		return slog.New(console), func() {}
	}
	remote, closeRemote := NewLogtailHandler(cfg.LogtailEndpoint, cfg.LogtailToken, slog.LevelInfo)
	return slog.New(multiHandler{console, remote}), closeRemote
}

// multiHandler fans a record out to every wrapped handler.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
