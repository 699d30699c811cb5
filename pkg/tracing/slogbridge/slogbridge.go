// Package slogbridge turns log/slog records into tracing events so code that
// logs with slog goes through a tracing.Subscriber.
//
// Each distinct (program counter, level, attribute keys) combination gets its
// own callsite, created on first use and reused afterwards, so events from one
// slog call share one Metadata just like events from a declared callsite.
package slogbridge

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/strongdm/relevel/pkg/tracing"
)

// Option configures the handler.
type Option func(*config)

type config struct {
	target string
}

// WithTarget sets the target of every event. By default the target is the
// package of the function that called slog.
func WithTarget(target string) Option {
	return func(c *config) {
		c.target = target
	}
}

// Handler is a slog.Handler that emits tracing events.
type Handler struct {
	sub    *tracing.Subscriber
	target string
	attrs  []slog.Attr
	prefix string
	sites  *siteCache
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler creates a handler that emits to sub.
func NewHandler(sub *tracing.Subscriber, opts ...Option) *Handler {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Handler{
		sub:    sub,
		target: cfg.target,
		sites:  &siteCache{},
	}
}

// Enabled reports whether the subscriber formats events at level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return Level(level) >= h.sub.MinLevel()
}

// Handle emits r as a tracing event. The record message is the "message"
// field; attributes follow in order, group members keyed "group.key".
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	names := make([]string, 0, 1+len(h.attrs)+r.NumAttrs())
	values := make([]any, 0, cap(names))
	names = append(names, "message")
	values = append(values, r.Message)

	add := func(key string, v any) {
		names = append(names, key)
		values = append(values, v)
	}
	for _, a := range h.attrs {
		flatten("", a, add)
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(h.prefix, a, add)
		return true
	})

	cs := h.sites.get(r.PC, Level(r.Level), h.target, names)
	vs := cs.Values(values...)
	ev := tracing.NewEvent(cs.Metadata(), &vs)
	return h.sub.Event(ctx, &ev)
}

// WithAttrs returns a handler that adds attrs to every event.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &h2
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// Level maps a slog level to the nearest tracing level at or below it.
func Level(l slog.Level) tracing.Level {
	switch {
	case l < slog.LevelDebug:
		return tracing.LevelTrace
	case l < slog.LevelInfo:
		return tracing.LevelDebug
	case l < slog.LevelWarn:
		return tracing.LevelInfo
	case l < slog.LevelError:
		return tracing.LevelWarn
	}
	return tracing.LevelError
}

func flatten(prefix string, a slog.Attr, add func(string, any)) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		group := v.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			flatten(prefix, ga, add)
		}
		return
	}
	if a.Key == "" {
		return
	}
	add(prefix+a.Key, v.Any())
}

type siteKey struct {
	pc     uintptr
	level  tracing.Level
	target string
	names  string
}

// siteCache maps record shapes to callsites. It grows with the number of
// distinct shapes, which is bounded by the program's slog calls as long as
// attribute keys are not built dynamically.
type siteCache struct {
	sites sync.Map // siteKey -> *tracing.DefaultCallsite
}

func (c *siteCache) get(pc uintptr, level tracing.Level, target string, names []string) *tracing.DefaultCallsite {
	key := siteKey{pc: pc, level: level, target: target, names: strings.Join(names, "\x00")}
	if cs, ok := c.sites.Load(key); ok {
		return cs.(*tracing.DefaultCallsite)
	}

	cfg := tracing.CallsiteConfig{
		Level:      level,
		Kind:       tracing.KindEvent,
		Target:     target,
		Fields:     names,
		SkipCaller: true,
	}
	if pc != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		cfg.File, cfg.Line = frame.File, frame.Line
		if frame.Function != "" {
			cfg.ModulePath = tracing.PackagePath(frame.Function)
		}
	}
	if cfg.Target == "" {
		cfg.Target = cfg.ModulePath
	}
	cfg.Name = fmt.Sprintf("event %s:%d", cfg.File, cfg.Line)

	cs, _ := c.sites.LoadOrStore(key, tracing.NewCallsite(cfg))
	return cs.(*tracing.DefaultCallsite)
}
