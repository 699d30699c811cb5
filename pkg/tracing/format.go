// format.go defines the Formatter contract and the context handed to it.

package tracing

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Formatter renders one event to w.
//
// A Formatter must not keep references to the event, its metadata, its value
// set or its fields after FormatEvent returns. Wrappers rely on this to reuse
// the storage behind rebuilt events.
type Formatter interface {
	FormatEvent(ctx *FmtContext, w io.Writer, ev *Event) error
}

// FormatterFunc adapts a function to a Formatter.
type FormatterFunc func(ctx *FmtContext, w io.Writer, ev *Event) error

// FormatEvent calls fn(ctx, w, ev).
func (fn FormatterFunc) FormatEvent(ctx *FmtContext, w io.Writer, ev *Event) error {
	return fn(ctx, w, ev)
}

// FmtContext gives a formatter access to the emitting context and to the
// span registry.
type FmtContext struct {
	ctx   context.Context
	spans *Registry
}

// NewFmtContext creates a formatting context. spans may be nil.
func NewFmtContext(ctx context.Context, spans *Registry) *FmtContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &FmtContext{ctx: ctx, spans: spans}
}

// Context returns the context the event was emitted with.
func (c *FmtContext) Context() context.Context { return c.ctx }

// Span looks up a live span.
func (c *FmtContext) Span(id SpanID) (*SpanData, bool) {
	if c.spans == nil || id == uuid.Nil {
		return nil, false
	}
	return c.spans.Lookup(id)
}

// Parent resolves the parent span of ev: the explicit parent, nothing for a
// root event, or the current span of the context.
func (c *FmtContext) Parent(ev *Event) (*SpanData, bool) {
	return c.Span(resolveParent(c.ctx, ev.Parent()))
}

// Scope returns the ancestry of ev, outermost span first.
func (c *FmtContext) Scope(ev *Event) []*SpanData {
	var scope []*SpanData
	span, ok := c.Parent(ev)
	for ok {
		scope = append(scope, span)
		span, ok = c.Span(span.ParentID)
		if len(scope) > c.spans.Len() {
			// corrupt parent chain
			break
		}
	}
	for i, j := 0, len(scope)-1; i < j; i, j = i+1, j-1 {
		scope[i], scope[j] = scope[j], scope[i]
	}
	return scope
}
