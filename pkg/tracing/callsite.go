// callsite.go provides DefaultCallsite, the usual way to declare an event or
// span and emit it.

package tracing

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// CallsiteConfig describes a callsite. File, Line and ModulePath are taken
// from the caller of NewCallsite when File is empty and SkipCaller is false.
type CallsiteConfig struct {
	// Name defaults to "event <file>:<line>" or "span <file>:<line>".
	Name string

	// Target defaults to ModulePath.
	Target string

	Level Level

	// Kind defaults to KindEvent.
	Kind Kind

	File       string
	Line       int
	ModulePath string

	// Fields are the declared field names, in order.
	Fields []string

	// SkipCaller leaves an empty location empty.
	SkipCaller bool
}

// DefaultCallsite is a statically declared callsite. Declare it once, usually
// as a package-level variable, and emit from it any number of times.
type DefaultCallsite struct {
	meta Metadata
}

// NewCallsite declares a callsite.
func NewCallsite(cfg CallsiteConfig) *DefaultCallsite {
	if cfg.File == "" && !cfg.SkipCaller {
		if pc, file, line, ok := runtime.Caller(1); ok {
			cfg.File, cfg.Line = file, line
			if cfg.ModulePath == "" {
				if fn := runtime.FuncForPC(pc); fn != nil {
					cfg.ModulePath = PackagePath(fn.Name())
				}
			}
		}
	}
	if cfg.Kind == 0 {
		cfg.Kind = KindEvent
	}
	if cfg.Target == "" {
		cfg.Target = cfg.ModulePath
	}
	if cfg.Name == "" {
		prefix := "event"
		if !cfg.Kind.IsEvent() {
			prefix = "span"
		}
		cfg.Name = fmt.Sprintf("%s %s:%d", prefix, cfg.File, cfg.Line)
	}

	cs := &DefaultCallsite{}
	cs.meta = NewMetadata(cfg.Name, cfg.Target, cfg.Level, cfg.File, cfg.Line, cfg.ModulePath,
		NewFieldSet(cfg.Fields, Identify(cs)), cfg.Kind)
	return cs
}

// Metadata implements Callsite.
func (cs *DefaultCallsite) Metadata() *Metadata { return &cs.meta }

// Values binds values to the declared fields by position. Missing trailing
// values leave their fields unset; surplus values are ignored.
func (cs *DefaultCallsite) Values(values ...any) ValueSet {
	fields := cs.meta.Fields()
	n := min(len(values), fields.Len())
	entries := make([]FieldValue, n)
	for i := range n {
		entries[i] = FieldValue{Field: fields.FieldAt(i), Value: values[i]}
	}
	return fields.ValueSet(entries)
}

// Event emits an event from this callsite to sub.
func (cs *DefaultCallsite) Event(ctx context.Context, sub *Subscriber, values ...any) error {
	if !sub.Enabled(&cs.meta) {
		return nil
	}
	vs := cs.Values(values...)
	ev := NewEvent(&cs.meta, &vs)
	return sub.Event(ctx, &ev)
}

// EventChildOf emits an event explicitly parented to span.
func (cs *DefaultCallsite) EventChildOf(ctx context.Context, sub *Subscriber, parent SpanID, values ...any) error {
	if !sub.Enabled(&cs.meta) {
		return nil
	}
	vs := cs.Values(values...)
	ev := NewChildOf(parent, &cs.meta, &vs)
	return sub.Event(ctx, &ev)
}

// Span opens a span from this callsite, parented to the current span of ctx.
func (cs *DefaultCallsite) Span(ctx context.Context, sub *Subscriber, values ...any) (context.Context, SpanID) {
	vs := cs.Values(values...)
	return sub.NewSpan(ctx, &cs.meta, &vs, ContextualParent())
}

// PackagePath extracts the package import path from a fully qualified
// function name such as "github.com/acme/app/pkg.(*T).Method".
func PackagePath(funcName string) string {
	slash := strings.LastIndexByte(funcName, '/')
	dot := strings.IndexByte(funcName[slash+1:], '.')
	if dot < 0 {
		return funcName
	}
	return funcName[:slash+1+dot]
}
