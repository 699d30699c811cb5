// Package eventfields splits an event into the pieces the formatters render.
package eventfields

import (
	"fmt"
	"io"
	"strings"

	"github.com/strongdm/relevel/pkg/relevel"
	"github.com/strongdm/relevel/pkg/tracing"
)

// MessageField is the field whose value is rendered as the event message.
const MessageField = "message"

// Split returns the event message and the remaining fields in visitation
// order. Without a message field the metadata name is the message. Values
// captured by an override are replaced by the original values.
func Split(ev *tracing.Event) (string, []tracing.FieldValue) {
	msg := ev.Metadata().Name()
	fields := ev.Fields()
	rest := fields[:0]
	found := false
	for _, fv := range fields {
		fv.Value = relevel.Uncapture(fv.Value)
		if !found && fv.Field.Name() == MessageField {
			msg = fmt.Sprint(fv.Value)
			found = true
			continue
		}
		rest = append(rest, fv)
	}
	return msg, rest
}

// Scope renders the span ancestry of ev as "outer:inner", or "" when the
// event has no parent span.
func Scope(ctx *tracing.FmtContext, ev *tracing.Event) string {
	scope := ctx.Scope(ev)
	if len(scope) == 0 {
		return ""
	}
	names := make([]string, len(scope))
	for i, span := range scope {
		names[i] = span.Name()
	}
	return strings.Join(names, ":")
}

// ErrWriter remembers the first write error. Loggers that swallow write
// errors write through it so the formatter can still report them.
type ErrWriter struct {
	W   io.Writer
	Err error
}

func (w *ErrWriter) Write(p []byte) (int, error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err := w.W.Write(p)
	if err != nil {
		w.Err = err
	}
	return n, err
}
