// field.go defines field declarations, field handles and value sets.

package tracing

// FieldSet is the list of field names declared by one callsite together with
// that callsite's identity. Names are shared and must never be modified, so a
// FieldSet is cheap to copy and every copy stays compatible with the original.
type FieldSet struct {
	names    []string
	callsite Identifier
}

// NewFieldSet declares names for the callsite identified by id.
// The slice is retained, not copied.
func NewFieldSet(names []string, id Identifier) FieldSet {
	return FieldSet{names: names, callsite: id}
}

// Len returns the number of declared fields.
func (fs FieldSet) Len() int { return len(fs.names) }

// Names returns the declared names. The returned slice must not be modified.
func (fs FieldSet) Names() []string { return fs.names }

// Callsite returns the identity of the declaring callsite.
func (fs FieldSet) Callsite() Identifier { return fs.callsite }

// Field returns the handle for name.
func (fs FieldSet) Field(name string) (Field, bool) {
	for i, n := range fs.names {
		if n == name {
			return Field{i: i, fields: fs}, true
		}
	}
	return Field{}, false
}

// FieldAt returns the handle for the i-th declared field.
// It panics if i is out of range.
func (fs FieldSet) FieldAt(i int) Field {
	if i < 0 || i >= len(fs.names) {
		panic("tracing: field index out of range")
	}
	return Field{i: i, fields: fs}
}

// Fields returns a handle for every declared field in declaration order.
func (fs FieldSet) Fields() []Field {
	out := make([]Field, len(fs.names))
	for i := range fs.names {
		out[i] = Field{i: i, fields: fs}
	}
	return out
}

// Contains reports whether f was declared by the same callsite as fs.
func (fs FieldSet) Contains(f Field) bool {
	return f.fields.callsite.Equal(fs.callsite) && f.i < len(fs.names)
}

// ValueSet binds values to fields of fs. Entries are visited in the given
// order.
func (fs FieldSet) ValueSet(values []FieldValue) ValueSet {
	return ValueSet{fields: fs, values: values}
}

// Field is a handle to one declared field of a FieldSet.
type Field struct {
	i      int
	fields FieldSet
}

// Name returns the declared name.
func (f Field) Name() string {
	if f.i < 0 || f.i >= len(f.fields.names) {
		return ""
	}
	return f.fields.names[f.i]
}

// Index returns the position of the field in its FieldSet.
func (f Field) Index() int { return f.i }

// Callsite returns the identity of the callsite that declared the field.
func (f Field) Callsite() Identifier { return f.fields.callsite }

func (f Field) String() string { return f.Name() }

// FieldValue pairs a field with its value. A nil Value means the field is
// declared but not set on this event.
type FieldValue struct {
	Field Field
	Value any
}

// Visitor receives field values from Event.Record and ValueSet.Record.
// Values arrive type-erased; visitors render them as they see fit.
type Visitor interface {
	Visit(f Field, value any)
}

// VisitorFunc adapts a function to a Visitor.
type VisitorFunc func(f Field, value any)

// Visit calls fn(f, value).
func (fn VisitorFunc) Visit(f Field, value any) { fn(f, value) }

// ValueSet is the concrete values of one event, bound to a FieldSet.
type ValueSet struct {
	fields FieldSet
	values []FieldValue
}

// FieldSet returns the field set the values are bound to.
func (vs *ValueSet) FieldSet() FieldSet { return vs.fields }

// Record visits every entry that belongs to the value set's callsite and
// carries a value. Entries whose field came from another callsite are
// skipped without notice.
func (vs *ValueSet) Record(v Visitor) {
	if vs == nil {
		return
	}
	for _, fv := range vs.values {
		if fv.Value == nil || !vs.fields.Contains(fv.Field) {
			continue
		}
		v.Visit(fv.Field, fv.Value)
	}
}

// Len returns the number of entries that Record would visit.
func (vs *ValueSet) Len() int {
	if vs == nil {
		return 0
	}
	n := 0
	for _, fv := range vs.values {
		if fv.Value != nil && vs.fields.Contains(fv.Field) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether Record would visit nothing.
func (vs *ValueSet) IsEmpty() bool { return vs.Len() == 0 }
