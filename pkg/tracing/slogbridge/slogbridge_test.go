package slogbridge

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strongdm/relevel/pkg/tracing"
)

type seen struct {
	meta   *tracing.Metadata
	fields map[string]any
	order  []string
}

type captureFormatter struct {
	mu     sync.Mutex
	events []seen
}

func (f *captureFormatter) FormatEvent(ctx *tracing.FmtContext, w io.Writer, ev *tracing.Event) error {
	s := seen{meta: ev.Metadata(), fields: map[string]any{}}
	ev.Record(tracing.VisitorFunc(func(field tracing.Field, v any) {
		s.fields[field.Name()] = v
		s.order = append(s.order, field.Name())
	}))
	f.mu.Lock()
	f.events = append(f.events, s)
	f.mu.Unlock()
	return nil
}

func newLogger(opts ...tracing.SubscriberOption) (*slog.Logger, *captureFormatter) {
	capture := &captureFormatter{}
	opts = append(opts, tracing.WithFormatter(capture), tracing.WithOutput(io.Discard))
	return slog.New(NewHandler(tracing.NewSubscriber(opts...))), capture
}

func TestHandler_EmitsEvent(t *testing.T) {
	logger, capture := newLogger()

	logger.Warn("disk almost full", "used", 93, "mount", "/data")

	require.Len(t, capture.events, 1)
	got := capture.events[0]
	assert.Equal(t, tracing.LevelWarn, got.meta.Level())
	assert.Equal(t, []string{"message", "used", "mount"}, got.order)
	assert.Equal(t, "disk almost full", got.fields["message"])
	assert.Equal(t, int64(93), got.fields["used"])
	assert.True(t, strings.HasSuffix(got.meta.File(), "slogbridge_test.go"), got.meta.File())
	assert.Equal(t, "github.com/strongdm/relevel/pkg/tracing/slogbridge", got.meta.Target())
}

func TestHandler_ReusesCallsitePerShape(t *testing.T) {
	logger, capture := newLogger()

	for i := range 3 {
		logger.Error("retry", "attempt", i)
	}
	logger.Error("retry", "attempt", 4, "extra", true)

	require.Len(t, capture.events, 4)
	assert.Same(t, capture.events[0].meta, capture.events[1].meta)
	assert.Same(t, capture.events[1].meta, capture.events[2].meta)
	assert.NotSame(t, capture.events[2].meta, capture.events[3].meta)
}

func TestHandler_GroupsAndAttrs(t *testing.T) {
	logger, capture := newLogger()

	logger.With("service", "api").WithGroup("req").Info("handled",
		"status", 200,
		slog.Group("user", "id", 7),
	)

	require.Len(t, capture.events, 1)
	got := capture.events[0]
	assert.Equal(t, []string{"message", "service", "req.status", "req.user.id"}, got.order)
	assert.Equal(t, "api", got.fields["service"])
	assert.Equal(t, int64(7), got.fields["req.user.id"])
}

func TestHandler_Enabled(t *testing.T) {
	logger, capture := newLogger(tracing.WithMinLevel(tracing.LevelWarn))

	logger.Info("dropped")
	logger.Error("kept")

	require.Len(t, capture.events, 1)
	assert.Equal(t, "kept", capture.events[0].fields["message"])
}

func TestHandler_WithTarget(t *testing.T) {
	capture := &captureFormatter{}
	sub := tracing.NewSubscriber(tracing.WithFormatter(capture), tracing.WithOutput(io.Discard))
	logger := slog.New(NewHandler(sub, WithTarget("billing")))

	logger.Info("charged")

	require.Len(t, capture.events, 1)
	assert.Equal(t, "billing", capture.events[0].meta.Target())
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want tracing.Level
	}{
		{slog.LevelDebug - 4, tracing.LevelTrace},
		{slog.LevelDebug, tracing.LevelDebug},
		{slog.LevelInfo, tracing.LevelInfo},
		{slog.LevelInfo + 2, tracing.LevelInfo},
		{slog.LevelWarn, tracing.LevelWarn},
		{slog.LevelError, tracing.LevelError},
		{slog.LevelError + 4, tracing.LevelError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.in), tt.in.String())
	}
}
