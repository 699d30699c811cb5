// subscriber.go provides the Subscriber, the emission endpoint that filters,
// formats and writes events.

package tracing

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// SubscriberOption configures a Subscriber.
type SubscriberOption func(*subscriberConfig)

type subscriberConfig struct {
	formatter Formatter
	maps      []func(Formatter) Formatter
	output    io.Writer
	minLevel  Level
	registry  *Registry
	logger    hclog.Logger
}

// WithFormatter sets the formatter used to render events.
func WithFormatter(f Formatter) SubscriberOption {
	return func(c *subscriberConfig) {
		c.formatter = f
	}
}

// MapFormatter wraps the configured formatter. Maps are applied after
// WithFormatter regardless of option order, in the order given.
func MapFormatter(fn func(Formatter) Formatter) SubscriberOption {
	return func(c *subscriberConfig) {
		c.maps = append(c.maps, fn)
	}
}

// WithOutput sets the destination of formatted events (default: os.Stderr).
func WithOutput(w io.Writer) SubscriberOption {
	return func(c *subscriberConfig) {
		c.output = w
	}
}

// WithMinLevel drops events below level (default: LevelTrace).
func WithMinLevel(level Level) SubscriberOption {
	return func(c *subscriberConfig) {
		c.minLevel = level
	}
}

// WithRegistry shares a span registry between subscribers.
func WithRegistry(r *Registry) SubscriberOption {
	return func(c *subscriberConfig) {
		c.registry = r
	}
}

// WithLogger sets the logger for the subscriber's own diagnostics.
func WithLogger(logger hclog.Logger) SubscriberOption {
	return func(c *subscriberConfig) {
		c.logger = logger
	}
}

// Subscriber receives events and spans from callsites. It is safe for
// concurrent use; writes to the output are serialised.
type Subscriber struct {
	formatter Formatter
	minLevel  Level
	registry  *Registry
	logger    hclog.Logger

	mu  sync.Mutex
	out io.Writer

	buffers sync.Pool
}

// NewSubscriber creates a Subscriber with the given options.
func NewSubscriber(opts ...SubscriberOption) *Subscriber {
	cfg := &subscriberConfig{
		output:   os.Stderr,
		minLevel: LevelTrace,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default to discarding events if no formatter is provided
	if cfg.formatter == nil {
		cfg.formatter = &noopFormatterInternal{}
	}
	for _, fn := range cfg.maps {
		cfg.formatter = fn(cfg.formatter)
	}
	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = hclog.NewNullLogger()
	}

	return &Subscriber{
		formatter: cfg.formatter,
		minLevel:  cfg.minLevel,
		registry:  cfg.registry,
		logger:    cfg.logger,
		out:       cfg.output,
		buffers: sync.Pool{
			New: func() any { return new(bytes.Buffer) },
		},
	}
}

// Formatter returns the formatter events are rendered with.
func (s *Subscriber) Formatter() Formatter { return s.formatter }

// Registry returns the span registry.
func (s *Subscriber) Registry() *Registry { return s.registry }

// MinLevel returns the lowest level that is formatted.
func (s *Subscriber) MinLevel() Level { return s.minLevel }

// Enabled reports whether events described by meta are formatted.
func (s *Subscriber) Enabled(meta *Metadata) bool {
	return meta.Level() >= s.minLevel
}

// Event formats ev and writes it to the output. Nothing is written when the
// formatter fails.
func (s *Subscriber) Event(ctx context.Context, ev *Event) error {
	if !s.Enabled(ev.Metadata()) {
		return nil
	}

	buf := s.buffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer s.buffers.Put(buf)

	if err := s.formatter.FormatEvent(NewFmtContext(ctx, s.registry), buf, ev); err != nil {
		s.logger.Error("failed to format event", "name", ev.Metadata().Name(), "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write event", "error", err)
		return err
	}
	return nil
}

// NewSpan registers a span and returns a context whose current span is the
// new one.
func (s *Subscriber) NewSpan(ctx context.Context, meta *Metadata, values *ValueSet, parent Parent) (context.Context, SpanID) {
	if ctx == nil {
		ctx = context.Background()
	}
	id := s.registry.NewSpan(ctx, meta, values, parent)
	s.logger.Trace("span opened", "name", meta.Name(), "id", id)
	return ContextWithSpan(ctx, id), id
}

// CloseSpan removes a span from the registry.
func (s *Subscriber) CloseSpan(id SpanID) {
	s.registry.Close(id)
	s.logger.Trace("span closed", "id", id)
}

// noopFormatterInternal discards events.
type noopFormatterInternal struct{}

func (f *noopFormatterInternal) FormatEvent(ctx *FmtContext, w io.Writer, ev *Event) error {
	return nil
}
