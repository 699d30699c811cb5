// Package hclogfmt renders events with github.com/hashicorp/go-hclog.
//
// Text output looks like
//
//	2025-01-26T15:04:05.000Z [WARN]  github.com/acme/app: retrying: caller=core.x:42 count=3
//
// and JSON output uses hclog's "@level", "@message", "@module" keys.
package hclogfmt

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/strongdm/relevel/pkg/relevel/formatters/internal/eventfields"
	"github.com/strongdm/relevel/pkg/tracing"
)

// Option configures the hclog formatter.
type Option func(*config)

type config struct {
	json        bool
	disableTime bool
	location    bool
	timeFormat  string
}

// WithJSON renders JSON lines instead of text.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithoutTime omits the timestamp.
func WithoutTime() Option {
	return func(c *config) {
		c.disableTime = true
	}
}

// WithoutLocation omits the caller=file:line pair.
func WithoutLocation() Option {
	return func(c *config) {
		c.location = false
	}
}

// WithTimeFormat sets the timestamp layout (default: hclog.TimeFormat).
func WithTimeFormat(layout string) Option {
	return func(c *config) {
		c.timeFormat = layout
	}
}

type formatter struct {
	cfg config
}

// New creates a formatter that renders events through an hclog logger named
// after the event target.
func New(opts ...Option) tracing.Formatter {
	cfg := config{
		location:   true,
		timeFormat: hclog.TimeFormat,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &formatter{cfg: cfg}
}

// FormatEvent writes one log line for ev.
func (f *formatter) FormatEvent(ctx *tracing.FmtContext, w io.Writer, ev *tracing.Event) error {
	meta := ev.Metadata()
	out := &eventfields.ErrWriter{W: w}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:        meta.Target(),
		Level:       hclog.Trace,
		Output:      out,
		JSONFormat:  f.cfg.json,
		DisableTime: f.cfg.disableTime,
		TimeFormat:  f.cfg.timeFormat,
		Color:       hclog.ColorOff,
	})

	msg, fields := eventfields.Split(ev)
	args := make([]any, 0, 2*len(fields)+4)
	if f.cfg.location {
		if loc := meta.Location(); loc != "" {
			args = append(args, "caller", loc)
		}
	}
	if scope := eventfields.Scope(ctx, ev); scope != "" {
		args = append(args, "span", scope)
	}
	for _, fv := range fields {
		args = append(args, fv.Field.Name(), fv.Value)
	}

	logger.Log(Level(meta.Level()), msg, args...)
	return out.Err
}

// Level maps a tracing level to the hclog level of the same name.
func Level(l tracing.Level) hclog.Level {
	switch l {
	case tracing.LevelTrace:
		return hclog.Trace
	case tracing.LevelDebug:
		return hclog.Debug
	case tracing.LevelInfo:
		return hclog.Info
	case tracing.LevelWarn:
		return hclog.Warn
	case tracing.LevelError:
		return hclog.Error
	}
	return hclog.NoLevel
}
