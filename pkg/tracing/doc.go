// Package tracing is a small structured event substrate.
//
// Events are emitted from callsites. Each callsite owns one immutable
// Metadata (name, target, level, source location, declared fields, kind) that
// every event from that callsite shares. Field values are bound to fields by
// callsite identity: a value whose field was declared by a different callsite
// is dropped when the event is recorded.
//
// A Subscriber filters events by level, renders them with a Formatter and
// writes the result to an io.Writer. Spans live in a Registry; the current
// span travels in a context.Context.
//
//	var requestDone = tracing.NewCallsite(tracing.CallsiteConfig{
//	    Level:  tracing.LevelInfo,
//	    Fields: []string{"message", "status"},
//	})
//
//	sub := tracing.NewSubscriber(tracing.WithFormatter(f))
//	_ = requestDone.Event(ctx, sub, "request done", 200)
package tracing
