// capture.go implements the bounded field capture used to rebuild events.

package relevel

import (
	"fmt"

	"github.com/strongdm/relevel/pkg/tracing"
)

// placeholderCallsite declares the reserved field that unused capture slots
// point at. No event is ever bound to it.
var placeholderCallsite = tracing.NewCallsite(tracing.CallsiteConfig{
	Name:       "relevel placeholder",
	Target:     "relevel",
	Level:      tracing.LevelInfo,
	Kind:       tracing.KindSpan,
	File:       "relevel",
	ModulePath: "relevel",
	Fields:     []string{"placeholder"},
})

var placeholderField = placeholderCallsite.Metadata().Fields().FieldAt(0)

// FieldCapture records up to a fixed number of field values from one event as
// Captured values, with each field rebound to a target FieldSet.
//
// Fields visited after the capture is full are dropped and counted.
type FieldCapture struct {
	fields  tracing.FieldSet
	slots   []tracing.FieldValue
	n       int
	dropped int
}

var _ tracing.Visitor = (*FieldCapture)(nil)

// NewFieldCapture creates a capture with room for capacity values. Captured
// fields are rebound to fields, which must declare the same names in the same
// order as the event being recorded.
func NewFieldCapture(capacity int, fields tracing.FieldSet) *FieldCapture {
	c := &FieldCapture{}
	c.reset(make([]tracing.FieldValue, max(capacity, 0)), fields)
	return c
}

func (c *FieldCapture) reset(slots []tracing.FieldValue, fields tracing.FieldSet) {
	for i := range slots {
		slots[i] = tracing.FieldValue{Field: placeholderField}
	}
	c.fields = fields
	c.slots = slots
	c.n = 0
	c.dropped = 0
}

// Visit implements tracing.Visitor.
func (c *FieldCapture) Visit(f tracing.Field, value any) {
	if c.n >= len(c.slots) || f.Index() >= c.fields.Len() {
		c.dropped++
		return
	}
	c.slots[c.n] = tracing.FieldValue{
		Field: c.fields.FieldAt(f.Index()),
		Value: Captured{text: Render(value), value: value},
	}
	c.n++
}

// Values returns every slot in capture order. Slots past Len hold the
// placeholder field and a nil value, which value sets treat as absent.
// The returned slice is owned by the capture.
func (c *FieldCapture) Values() []tracing.FieldValue { return c.slots }

// Len returns the number of captured values.
func (c *FieldCapture) Len() int { return c.n }

// Capacity returns the number of slots.
func (c *FieldCapture) Capacity() int { return len(c.slots) }

// Dropped returns how many visited values did not fit.
func (c *FieldCapture) Dropped() int { return c.dropped }

// Captured is a field value taken from an overridden event: its text
// rendering and the value itself. Formatters that know about Captured render
// Value() exactly as they would have rendered the original; fmt verbs are
// applied to the original value as well.
type Captured struct {
	text  string
	value any
}

// Text returns the value rendered with Render.
func (c Captured) Text() string { return c.text }

// Value returns the original value.
func (c Captured) Value() any { return c.value }

// Format implements fmt.Formatter by formatting the original value.
func (c Captured) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, fmt.FormatString(f, verb), c.value)
}

// Uncapture returns the original value when v is a Captured, and v otherwise.
func Uncapture(v any) any {
	if c, ok := v.(Captured); ok {
		return c.value
	}
	return v
}

// Render formats a field value for display. Strings are returned as is, byte
// slices as text, errors and fmt.Stringers through their methods, everything
// else with %+v. The result is meant for reading, not for parsing back.
func Render(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case error, fmt.Stringer:
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%+v", value)
}
