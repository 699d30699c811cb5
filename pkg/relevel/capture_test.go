package relevel

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strongdm/relevel/pkg/tracing"
)

func TestFieldCapture_RebindsAndRenders(t *testing.T) {
	cs := tracing.NewCallsite(tracing.CallsiteConfig{Name: "capture", Fields: []string{"a", "b"}})
	fields := cs.Metadata().Fields()
	vs := cs.Values(1, errors.New("bad"))

	c := NewFieldCapture(4, fields)
	vs.Record(c)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, 4, c.Capacity())
	assert.Equal(t, 0, c.Dropped())

	values := c.Values()
	require.Len(t, values, 4)
	assert.Equal(t, "a", values[0].Field.Name())
	first, ok := values[0].Value.(Captured)
	require.True(t, ok, "value should be captured: %#v", values[0].Value)
	assert.Equal(t, "1", first.Text())
	assert.Equal(t, 1, first.Value())
	second := values[1].Value.(Captured)
	assert.Equal(t, "bad", second.Text())
	assert.EqualError(t, second.Value().(error), "bad")
	assert.True(t, fields.Contains(values[1].Field))

	for _, v := range values[2:] {
		assert.Nil(t, v.Value)
		assert.False(t, fields.Contains(v.Field))
	}

	// Unused slots are ignored by a value set built from the capture.
	rebuilt := fields.ValueSet(values)
	assert.Equal(t, 2, rebuilt.Len())
}

func TestFieldCapture_DropsWhenFull(t *testing.T) {
	cs := tracing.NewCallsite(tracing.CallsiteConfig{Name: "capture", Fields: []string{"a", "b", "c"}})
	vs := cs.Values("x", "y", "z")

	c := NewFieldCapture(1, cs.Metadata().Fields())
	vs.Record(c)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Dropped())
	assert.Equal(t, "x", Uncapture(c.Values()[0].Value))
}

func TestFieldCapture_DropsFieldOutsideTarget(t *testing.T) {
	wide := tracing.NewCallsite(tracing.CallsiteConfig{Name: "wide", Fields: []string{"a", "b", "c"}})
	narrow := tracing.NewCallsite(tracing.CallsiteConfig{Name: "narrow", Fields: []string{"a"}})

	c := NewFieldCapture(4, narrow.Metadata().Fields())
	c.Visit(wide.Metadata().Fields().FieldAt(2), "out of range")

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, c.Dropped())
}

func TestFieldCapture_ZeroCapacity(t *testing.T) {
	cs := tracing.NewCallsite(tracing.CallsiteConfig{Name: "capture", Fields: []string{"a"}})
	vs := cs.Values(1)

	c := NewFieldCapture(-1, cs.Metadata().Fields())
	vs.Record(c)

	assert.Equal(t, 0, c.Capacity())
	assert.Equal(t, 1, c.Dropped())
	assert.Empty(t, c.Values())
}

type point struct {
	X, Y int
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "plain text", "plain text"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"error", errors.New("connection refused"), "connection refused"},
		{"stringer", 1500 * time.Millisecond, "1.5s"},
		{"struct", point{X: 1, Y: 2}, "{X:1 Y:2}"},
		{"pointer to struct", &point{X: 1}, "&{X:1 Y:0}"},
		{"slice", []string{"a", "b"}, "[a b]"},
		{"bytes", []byte("hi"), "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.value))
		})
	}
}

func TestCaptured_FormatsOriginalValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		format string
	}{
		{"int", 42, "%v"},
		{"padded int", 42, "%5d"},
		{"struct", point{X: 1, Y: 2}, "%v"},
		{"struct with names", point{X: 1, Y: 2}, "%+v"},
		{"go syntax", point{X: 1, Y: 2}, "%#v"},
		{"slice", []string{"x", "y z"}, "%v"},
		{"quoted slice", []string{"x", "y z"}, "%q"},
		{"bytes", []byte("hi"), "%v"},
		{"bytes as string", []byte("hi"), "%s"},
		{"error", errors.New("bad"), "%v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Captured{text: Render(tt.value), value: tt.value}
			assert.Equal(t, fmt.Sprintf(tt.format, tt.value), fmt.Sprintf(tt.format, c))
		})
	}
}

func TestUncapture(t *testing.T) {
	cs := tracing.NewCallsite(tracing.CallsiteConfig{Name: "capture", Fields: []string{"a"}})
	vs := cs.Values([]string{"x"})

	c := NewFieldCapture(1, cs.Metadata().Fields())
	vs.Record(c)

	assert.Equal(t, []string{"x"}, Uncapture(c.Values()[0].Value))
	assert.Equal(t, "plain", Uncapture("plain"))
	assert.Nil(t, Uncapture(nil))
}
