// formatter.go provides EventFormatter, the level-override wrapper around a
// downstream tracing.Formatter.

package relevel

import (
	"io"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/strongdm/relevel/pkg/relevel/formatters/noop"
	"github.com/strongdm/relevel/pkg/tracing"
)

// DefaultCapacity is the number of field values captured per rebuilt event
// when WithCapacity is not given.
const DefaultCapacity = 32

// Check decides whether an event's level is replaced for display.
// Returning false leaves the event untouched.
type Check func(meta *tracing.Metadata) (tracing.Level, bool)

// Option configures an EventFormatter.
type Option func(*formatterConfig)

type formatterConfig struct {
	capacity    int
	retention   Retention
	logger      hclog.Logger
	onTruncated func(meta *tracing.Metadata, dropped int)
}

// WithCapacity sets how many field values a rebuilt event can carry
// (default: DefaultCapacity). Values past the capacity are dropped.
func WithCapacity(n int) Option {
	return func(c *formatterConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithRetention selects how rebuilt event storage is managed
// (default: RetainFresh).
func WithRetention(r Retention) Option {
	return func(c *formatterConfig) {
		c.retention = r
	}
}

// WithLogger sets the logger for the formatter's own diagnostics.
func WithLogger(logger hclog.Logger) Option {
	return func(c *formatterConfig) {
		c.logger = logger
	}
}

// WithOnTruncated sets a callback invoked when a rebuilt event loses fields
// because the capacity was exceeded.
func WithOnTruncated(fn func(meta *tracing.Metadata, dropped int)) Option {
	return func(c *formatterConfig) {
		c.onTruncated = fn
	}
}

// EventFormatter wraps a downstream formatter and rewrites event levels
// chosen by a Check.
//
// Events the Check leaves alone are passed through unchanged. Otherwise an
// equivalent event is rebuilt with a cloned descriptor carrying the new
// level, the original field values rendered to text, and the original parent
// relation, and that event is passed downstream instead. The original event
// and its metadata are never modified.
//
// An EventFormatter is safe for concurrent use.
type EventFormatter struct {
	next        tracing.Formatter
	check       Check
	capacity    int
	retention   Retention
	logger      hclog.Logger
	onTruncated func(meta *tracing.Metadata, dropped int)

	pool sync.Pool
}

var _ tracing.Formatter = (*EventFormatter)(nil)

// New creates an EventFormatter that delegates to next.
func New(next tracing.Formatter, check Check, opts ...Option) *EventFormatter {
	cfg := &formatterConfig{
		capacity:  DefaultCapacity,
		retention: RetainFresh,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if next == nil {
		next = noop.New()
	}
	if check == nil {
		check = Never
	}
	if cfg.logger == nil {
		cfg.logger = hclog.NewNullLogger()
	}

	f := &EventFormatter{
		next:        next,
		check:       check,
		capacity:    cfg.capacity,
		retention:   cfg.retention,
		logger:      cfg.logger,
		onTruncated: cfg.onTruncated,
	}
	f.pool.New = func() any { return &scratch{} }
	return f
}

// Capacity returns the number of field values a rebuilt event can carry.
func (f *EventFormatter) Capacity() int { return f.capacity }

// Retention returns the storage discipline in use.
func (f *EventFormatter) Retention() Retention { return f.retention }

// FormatEvent implements tracing.Formatter. Errors come from the downstream
// formatter and are returned as is.
func (f *EventFormatter) FormatEvent(ctx *tracing.FmtContext, w io.Writer, ev *tracing.Event) error {
	meta := ev.Metadata()
	level, ok := f.check(meta)
	if !ok {
		return f.next.FormatEvent(ctx, w, ev)
	}

	kind := eventKind(meta)
	s := f.acquire(meta, level, kind)
	defer f.release(s)

	ev.Record(&s.capture)
	if dropped := s.capture.Dropped(); dropped > 0 {
		f.truncated(meta, dropped)
	}

	s.values = s.meta.Fields().ValueSet(s.capture.Values())
	s.event = tracing.NewEventWithParent(&s.meta, &s.values, ev.Parent())
	return f.next.FormatEvent(ctx, w, &s.event)
}

func (f *EventFormatter) truncated(meta *tracing.Metadata, dropped int) {
	if f.logger.IsTrace() {
		f.logger.Trace("rebuilt event truncated",
			"name", meta.Name(),
			"location", meta.Location(),
			"capacity", f.capacity,
			"dropped", dropped,
		)
	}
	if f.onTruncated != nil {
		f.onTruncated(meta, dropped)
	}
}

// Never is a Check that never overrides.
func Never(*tracing.Metadata) (tracing.Level, bool) { return 0, false }

// Always returns a Check that overrides every event to level.
func Always(level tracing.Level) Check {
	return func(*tracing.Metadata) (tracing.Level, bool) { return level, true }
}

