// span.go provides span identity, parent linkage and the span registry.

package tracing

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// SpanID identifies a live span in a Registry.
type SpanID = uuid.UUID

type parentMode uint8

const (
	parentContextual parentMode = iota
	parentRoot
	parentExplicit
)

// Parent describes how an event or span relates to the span tree.
// The zero Parent is contextual: the current span in the context, if any.
type Parent struct {
	mode parentMode
	id   SpanID
}

// ContextualParent returns a Parent resolved from the current span at
// format time.
func ContextualParent() Parent { return Parent{mode: parentContextual} }

// RootParent returns a Parent that has no span above it.
func RootParent() Parent { return Parent{mode: parentRoot} }

// ChildOf returns an explicit Parent.
func ChildOf(id SpanID) Parent { return Parent{mode: parentExplicit, id: id} }

// IsContextual reports whether the parent is taken from the context.
func (p Parent) IsContextual() bool { return p.mode == parentContextual }

// IsRoot reports whether the parent is explicitly none.
func (p Parent) IsRoot() bool { return p.mode == parentRoot }

// ID returns the explicit parent span, if any.
func (p Parent) ID() (SpanID, bool) {
	if p.mode != parentExplicit {
		return SpanID{}, false
	}
	return p.id, true
}

// SpanData is the registry's record of a span. It is not modified after
// creation.
type SpanData struct {
	// ID is the span identifier.
	ID SpanID

	// Metadata is the span's descriptor.
	Metadata *Metadata

	// ParentID is the resolved parent span; uuid.Nil for a root span.
	ParentID SpanID

	// Fields holds the values recorded when the span was created,
	// in visitation order.
	Fields []FieldValue
}

// Name returns the span's metadata name.
func (s *SpanData) Name() string { return s.Metadata.Name() }

// Context keys (unexported to avoid collisions)
type spanKey struct{}

// ContextWithSpan returns a context whose current span is id.
func ContextWithSpan(ctx context.Context, id SpanID) context.Context {
	return context.WithValue(ctx, spanKey{}, id)
}

// SpanFromContext returns the current span of ctx.
// Returns false if there is none.
func SpanFromContext(ctx context.Context) (SpanID, bool) {
	if ctx == nil {
		return SpanID{}, false
	}
	id, ok := ctx.Value(spanKey{}).(SpanID)
	return id, ok && id != uuid.Nil
}

// Registry stores live spans. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	spans map[SpanID]*SpanData
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{spans: make(map[SpanID]*SpanData)}
}

// NewSpan registers a span and returns its id. The parent is resolved now:
// a contextual parent becomes the current span of ctx.
func (r *Registry) NewSpan(ctx context.Context, meta *Metadata, values *ValueSet, parent Parent) SpanID {
	data := &SpanData{
		ID:       uuid.New(),
		Metadata: meta,
		ParentID: resolveParent(ctx, parent),
	}
	values.Record(VisitorFunc(func(f Field, v any) {
		data.Fields = append(data.Fields, FieldValue{Field: f, Value: v})
	}))

	r.mu.Lock()
	r.spans[data.ID] = data
	r.mu.Unlock()
	return data.ID
}

// Lookup returns the span with the given id.
func (r *Registry) Lookup(id SpanID) (*SpanData, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.spans[id]
	return data, ok
}

// Close removes a span. Closing an unknown span is a no-op.
func (r *Registry) Close(id SpanID) {
	r.mu.Lock()
	delete(r.spans, id)
	r.mu.Unlock()
}

// Len returns the number of live spans.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spans)
}

func resolveParent(ctx context.Context, parent Parent) SpanID {
	switch parent.mode {
	case parentExplicit:
		return parent.id
	case parentRoot:
		return uuid.Nil
	}
	if id, ok := SpanFromContext(ctx); ok {
		return id
	}
	return uuid.Nil
}
