// Package slogfmt renders events with the log/slog text and JSON handlers.
package slogfmt

import (
	"io"
	"log/slog"
	"time"

	"github.com/strongdm/relevel/pkg/relevel/formatters/internal/eventfields"
	"github.com/strongdm/relevel/pkg/tracing"
)

// LevelTrace is the slog level used for tracing.LevelTrace.
const LevelTrace = slog.LevelDebug - 4

// Option configures the slog formatter.
type Option func(*config)

type config struct {
	json bool
	now  func() time.Time
}

// WithJSON uses slog.JSONHandler instead of slog.TextHandler.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithoutTime omits the timestamp.
func WithoutTime() Option {
	return func(c *config) {
		c.now = func() time.Time { return time.Time{} }
	}
}

type formatter struct {
	cfg  config
	opts *slog.HandlerOptions
}

// New creates a formatter backed by a slog handler.
func New(opts ...Option) tracing.Formatter {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &formatter{
		cfg: cfg,
		opts: &slog.HandlerOptions{
			Level:       LevelTrace,
			ReplaceAttr: replaceLevel,
		},
	}
}

// FormatEvent renders ev as one slog record. The record has no PC; the
// source location is added as a "source" attribute instead.
func (f *formatter) FormatEvent(ctx *tracing.FmtContext, w io.Writer, ev *tracing.Event) error {
	var h slog.Handler
	if f.cfg.json {
		h = slog.NewJSONHandler(w, f.opts)
	} else {
		h = slog.NewTextHandler(w, f.opts)
	}

	meta := ev.Metadata()
	msg, fields := eventfields.Split(ev)

	rec := slog.NewRecord(f.cfg.now(), Level(meta.Level()), msg, 0)
	if target := meta.Target(); target != "" {
		rec.AddAttrs(slog.String("target", target))
	}
	if loc := meta.Location(); loc != "" {
		rec.AddAttrs(slog.String(slog.SourceKey, loc))
	}
	if scope := eventfields.Scope(ctx, ev); scope != "" {
		rec.AddAttrs(slog.String("span", scope))
	}
	for _, fv := range fields {
		rec.AddAttrs(slog.Any(fv.Field.Name(), fv.Value))
	}
	return h.Handle(ctx.Context(), rec)
}

// Level maps a tracing level to a slog level.
func Level(l tracing.Level) slog.Level {
	switch l {
	case tracing.LevelTrace:
		return LevelTrace
	case tracing.LevelDebug:
		return slog.LevelDebug
	case tracing.LevelInfo:
		return slog.LevelInfo
	case tracing.LevelWarn:
		return slog.LevelWarn
	}
	return slog.LevelError
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
		return slog.String(slog.LevelKey, "TRACE")
	}
	return a
}
