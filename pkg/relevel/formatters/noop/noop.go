// Package noop provides a no-operation formatter that discards all events.
// Useful for testing and for silencing a subscriber.
package noop

import (
	"io"

	"github.com/strongdm/relevel/pkg/tracing"
)

// noopFormatter discards all events.
type noopFormatter struct{}

// New creates a formatter that writes nothing and returns nil.
func New() tracing.Formatter {
	return &noopFormatter{}
}

// FormatEvent discards the event and returns nil.
func (f *noopFormatter) FormatEvent(ctx *tracing.FmtContext, w io.Writer, ev *tracing.Event) error {
	return nil
}
