// event.go defines the Event instance passed from emitters to formatters.

package tracing

// Event is one emitted occurrence: a Metadata, the values set on this
// occurrence, and its relation to the span tree. Events are built per
// emission and must not be retained after formatting.
type Event struct {
	meta   *Metadata
	values *ValueSet
	parent Parent
}

// NewEvent creates an event whose parent is the current span at format time.
func NewEvent(meta *Metadata, values *ValueSet) Event {
	return Event{meta: meta, values: values}
}

// NewRootEvent creates an event with no parent span.
func NewRootEvent(meta *Metadata, values *ValueSet) Event {
	return Event{meta: meta, values: values, parent: RootParent()}
}

// NewChildOf creates an event explicitly parented to span.
func NewChildOf(parent SpanID, meta *Metadata, values *ValueSet) Event {
	return Event{meta: meta, values: values, parent: ChildOf(parent)}
}

// NewEventWithParent creates an event with the given parent relation.
func NewEventWithParent(meta *Metadata, values *ValueSet, parent Parent) Event {
	return Event{meta: meta, values: values, parent: parent}
}

// Metadata returns the event's descriptor.
func (e *Event) Metadata() *Metadata { return e.meta }

// Parent returns the event's parent relation.
func (e *Event) Parent() Parent { return e.parent }

// Values returns the event's value set.
func (e *Event) Values() *ValueSet { return e.values }

// Record visits the event's values. Values bound to a field of a different
// callsite than the event's metadata are skipped.
func (e *Event) Record(v Visitor) {
	if e.values == nil {
		return
	}
	if e.meta != nil && !e.values.fields.callsite.Equal(e.meta.Callsite()) {
		return
	}
	e.values.Record(v)
}

// Field returns the value recorded for name, if any.
func (e *Event) Field(name string) (any, bool) {
	var (
		found any
		ok    bool
	)
	e.Record(VisitorFunc(func(f Field, v any) {
		if !ok && f.Name() == name {
			found, ok = v, true
		}
	}))
	return found, ok
}

// Fields returns the values Record would visit, in visitation order.
func (e *Event) Fields() []FieldValue {
	var out []FieldValue
	e.Record(VisitorFunc(func(f Field, v any) {
		out = append(out, FieldValue{Field: f, Value: v})
	}))
	return out
}
