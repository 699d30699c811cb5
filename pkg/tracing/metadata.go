// metadata.go defines callsite identity and the immutable event descriptor.

package tracing

import "strconv"

// Callsite is a static declaration site that owns a Metadata.
//
// Implementations must be pointer types: two callsites are the same callsite
// only when they are the same pointer.
type Callsite interface {
	Metadata() *Metadata
}

// Identifier is an opaque, comparable handle to a Callsite.
// The zero Identifier refers to no callsite.
type Identifier struct {
	cs Callsite
}

// Identify returns the Identifier of cs.
func Identify(cs Callsite) Identifier {
	return Identifier{cs: cs}
}

// Equal reports whether both identifiers refer to the same callsite.
func (id Identifier) Equal(other Identifier) bool {
	return id.cs == other.cs
}

// Callsite returns the callsite this identifier refers to, or nil.
func (id Identifier) Callsite() Callsite {
	return id.cs
}

// Metadata describes the static shape of events or spans emitted from one
// callsite. A Metadata is shared by every event from that callsite and is
// never modified once built.
type Metadata struct {
	name       string
	target     string
	level      Level
	file       string
	line       int
	modulePath string
	fields     FieldSet
	kind       Kind
}

// NewMetadata builds a Metadata value. fields is stored as given; copying a
// FieldSet copies references only, so a FieldSet taken from another Metadata
// keeps its callsite identity.
func NewMetadata(name, target string, level Level, file string, line int, modulePath string, fields FieldSet, kind Kind) Metadata {
	return Metadata{
		name:       name,
		target:     target,
		level:      level,
		file:       file,
		line:       line,
		modulePath: modulePath,
		fields:     fields,
		kind:       kind,
	}
}

// Name returns the human-readable name of the callsite.
func (m *Metadata) Name() string { return m.name }

// Target returns the target (usually the emitting package path).
func (m *Metadata) Target() string { return m.target }

// Level returns the severity level.
func (m *Metadata) Level() Level { return m.level }

// File returns the source file, or "" when unknown.
func (m *Metadata) File() string { return m.file }

// Line returns the source line, or 0 when unknown.
func (m *Metadata) Line() int { return m.line }

// ModulePath returns the module path of the emitting code, or "" when unknown.
func (m *Metadata) ModulePath() string { return m.modulePath }

// Fields returns the declared field set.
func (m *Metadata) Fields() FieldSet { return m.fields }

// Kind returns the callsite kind.
func (m *Metadata) Kind() Kind { return m.kind }

// IsEvent reports whether the metadata describes an event.
func (m *Metadata) IsEvent() bool { return m.kind.IsEvent() }

// IsSpan reports whether the metadata describes a span.
func (m *Metadata) IsSpan() bool { return m.kind.IsSpan() }

// Callsite returns the identity of the declaring callsite.
func (m *Metadata) Callsite() Identifier { return m.fields.callsite }

// Location returns "file:line", "file" or "" depending on what is known.
func (m *Metadata) Location() string {
	if m.file == "" {
		return ""
	}
	if m.line <= 0 {
		return m.file
	}
	return m.file + ":" + strconv.Itoa(m.line)
}
