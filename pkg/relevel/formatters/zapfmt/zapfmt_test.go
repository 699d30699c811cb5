package zapfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/strongdm/relevel/pkg/relevel"
	"github.com/strongdm/relevel/pkg/tracing"
)

var tickSite = tracing.NewCallsite(tracing.CallsiteConfig{
	Name:   "tick",
	Target: "core",
	Level:  tracing.LevelError,
	File:   "core.x",
	Line:   42,
	Fields: []string{"message", "count"},
})

func render(t *testing.T, f tracing.Formatter, ev *tracing.Event) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.FormatEvent(tracing.NewFmtContext(context.Background(), nil), &buf, ev))
	return buf.String()
}

func TestFormatter_Console(t *testing.T) {
	vs := tickSite.Values("tick failed", 3)
	ev := tracing.NewEvent(tickSite.Metadata(), &vs)

	out := render(t, New(WithoutTime()), &ev)
	cols := strings.Split(strings.TrimSuffix(out, "\n"), "\t")

	require.Len(t, cols, 5, out)
	assert.Equal(t, "ERROR", cols[0])
	assert.Equal(t, "core", cols[1])
	assert.Equal(t, "core.x:42", cols[2])
	assert.Equal(t, "tick failed", cols[3])
	assert.JSONEq(t, `{"count": 3}`, cols[4])
}

func TestFormatter_JSON_Override(t *testing.T) {
	vs := tickSite.Values("tick failed", 3)
	ev := tracing.NewEvent(tickSite.Metadata(), &vs)

	f := relevel.New(New(WithJSON(), WithoutTime()), relevel.Always(tracing.LevelTrace))
	out := render(t, f, &ev)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "TRACE", got["level"])
	assert.Equal(t, "core", got["logger"])
	assert.Equal(t, "core.x:42", got["caller"])
	assert.Equal(t, "tick failed", got["msg"])
	assert.Equal(t, float64(3), got["count"])
	assert.NotContains(t, got, "ts")
}

type point struct {
	X, Y int
}

func TestFormatter_OverrideKeepsRichValues(t *testing.T) {
	cs := tracing.NewCallsite(tracing.CallsiteConfig{
		Name:   "sync",
		Target: "core",
		Level:  tracing.LevelError,
		File:   "core.x",
		Line:   7,
		Fields: []string{"message", "pos", "tags", "raw"},
	})
	vs := cs.Values("sync failed", point{X: 1, Y: 2}, []string{"x", "y z"}, []byte("hi"))
	ev := tracing.NewEvent(cs.Metadata(), &vs)

	for _, opts := range [][]Option{{WithoutTime()}, {WithJSON(), WithoutTime()}} {
		direct := render(t, relevel.New(New(opts...), relevel.Never), &ev)
		overridden := render(t, relevel.New(New(opts...), relevel.Always(tracing.LevelError)), &ev)
		assert.Equal(t, direct, overridden)
	}
}

func TestFormatter_WithEncoderConfig(t *testing.T) {
	vs := tickSite.Values("tick failed", 3)
	ev := tracing.NewEvent(tickSite.Metadata(), &vs)

	f := New(WithJSON(), WithEncoderConfig(zapcore.EncoderConfig{
		MessageKey: "message",
		LevelKey:   "severity",
	}))
	out := render(t, f, &ev)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "tick failed", got["message"])
	assert.Equal(t, "ERROR", got["severity"])
	assert.NotContains(t, got, "caller")
}

func TestFormatter_Span(t *testing.T) {
	sub := tracing.NewSubscriber()
	span := tracing.NewCallsite(tracing.CallsiteConfig{Name: "request", Kind: tracing.KindSpan})
	_, id := span.Span(context.Background(), sub)

	vs := tickSite.Values("tick failed", 3)
	ev := tracing.NewChildOf(id, tickSite.Metadata(), &vs)

	var buf bytes.Buffer
	err := New(WithJSON()).FormatEvent(tracing.NewFmtContext(context.Background(), sub.Registry()), &buf, &ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "request", got["span"])
}

func TestLevel(t *testing.T) {
	assert.Equal(t, TraceLevel, Level(tracing.LevelTrace))
	assert.Equal(t, zapcore.DebugLevel, Level(tracing.LevelDebug))
	assert.Equal(t, zapcore.InfoLevel, Level(tracing.LevelInfo))
	assert.Equal(t, zapcore.WarnLevel, Level(tracing.LevelWarn))
	assert.Equal(t, zapcore.ErrorLevel, Level(tracing.LevelError))
}
