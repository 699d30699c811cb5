// scratch.go manages the storage behind a rebuilt event: the cloned metadata,
// the capture slots, the value set and the event itself.

package relevel

import (
	"fmt"

	"github.com/strongdm/relevel/pkg/tracing"
)

// Retention selects how the storage behind a rebuilt event is managed once
// the downstream formatter returns.
type Retention int

const (
	// RetainFresh allocates new storage for every rebuilt event and never
	// reuses it. A downstream formatter that keeps a reference past
	// FormatEvent still sees valid data; the garbage collector reclaims the
	// storage once nothing refers to it.
	RetainFresh Retention = iota

	// RecycleScratch returns the storage to a pool as soon as the downstream
	// formatter returns. Only correct when the downstream formatter honours
	// the tracing.Formatter contract and keeps no reference to the event.
	RecycleScratch
)

func (r Retention) String() string {
	switch r {
	case RetainFresh:
		return "fresh"
	case RecycleScratch:
		return "recycle"
	}
	return fmt.Sprintf("retention(%d)", int(r))
}

// scratch is everything one rebuilt event refers to.
type scratch struct {
	meta    tracing.Metadata
	capture FieldCapture
	values  tracing.ValueSet
	event   tracing.Event
}

// cloneMetadata copies orig with a new level and kind. The FieldSet is copied
// by reference, so fields taken from orig stay valid against the clone.
func cloneMetadata(orig *tracing.Metadata, level tracing.Level, kind tracing.Kind) tracing.Metadata {
	return tracing.NewMetadata(
		orig.Name(),
		orig.Target(),
		level,
		orig.File(),
		orig.Line(),
		orig.ModulePath(),
		orig.Fields(),
		kind,
	)
}

// eventKind recomputes the kind of a cloned descriptor. Metadata that is
// neither an event nor a span breaks the substrate's contract.
func eventKind(meta *tracing.Metadata) tracing.Kind {
	switch {
	case meta.IsEvent():
		return tracing.KindEvent
	case meta.IsSpan():
		return tracing.KindSpan
	}
	panic(fmt.Sprintf("relevel: metadata %q has unknown kind %v", meta.Name(), meta.Kind()))
}

func (f *EventFormatter) acquire(orig *tracing.Metadata, level tracing.Level, kind tracing.Kind) *scratch {
	var s *scratch
	if f.retention == RecycleScratch {
		s = f.pool.Get().(*scratch)
	} else {
		s = &scratch{}
	}

	s.meta = cloneMetadata(orig, level, kind)

	slots := s.capture.slots
	if cap(slots) < f.capacity {
		slots = make([]tracing.FieldValue, f.capacity)
	}
	s.capture.reset(slots[:f.capacity], s.meta.Fields())
	return s
}

func (f *EventFormatter) release(s *scratch) {
	if f.retention != RecycleScratch {
		return
	}
	clear(s.capture.slots)
	s.capture.fields = tracing.FieldSet{}
	s.meta = tracing.Metadata{}
	s.values = tracing.ValueSet{}
	s.event = tracing.Event{}
	f.pool.Put(s)
}
