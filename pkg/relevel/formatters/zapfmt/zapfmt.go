// Package zapfmt renders events with a go.uber.org/zap encoder.
package zapfmt

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/strongdm/relevel/pkg/relevel/formatters/internal/eventfields"
	"github.com/strongdm/relevel/pkg/tracing"
)

// TraceLevel is the zap level used for tracing.LevelTrace; zap has no
// level below debug.
const TraceLevel = zapcore.DebugLevel - 1

// Option configures the zap formatter.
type Option func(*config)

type config struct {
	json    bool
	encoder zapcore.EncoderConfig
	now     func() time.Time
}

// WithJSON uses zap's JSON encoder instead of the console encoder.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithoutTime omits the timestamp.
func WithoutTime() Option {
	return func(c *config) {
		c.encoder.TimeKey = zapcore.OmitKey
	}
}

// WithEncoderConfig replaces the encoder configuration. The level encoder is
// kept unless the given config sets one.
func WithEncoderConfig(ec zapcore.EncoderConfig) Option {
	return func(c *config) {
		if ec.EncodeLevel == nil {
			ec.EncodeLevel = c.encoder.EncodeLevel
		}
		c.encoder = ec
	}
}

type formatter struct {
	encoder zapcore.Encoder
	now     func() time.Time
}

// New creates a formatter backed by a zap console (or JSON) encoder.
func New(opts ...Option) tracing.Formatter {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = capitalLevelEncoder
	ec.EncodeCaller = zapcore.FullCallerEncoder
	ec.StacktraceKey = zapcore.OmitKey

	cfg := &config{encoder: ec, now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	var enc zapcore.Encoder
	if cfg.json {
		enc = zapcore.NewJSONEncoder(cfg.encoder)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg.encoder)
	}
	return &formatter{encoder: enc, now: cfg.now}
}

// FormatEvent encodes ev as one zap entry.
func (f *formatter) FormatEvent(ctx *tracing.FmtContext, w io.Writer, ev *tracing.Event) error {
	meta := ev.Metadata()
	msg, fields := eventfields.Split(ev)

	entry := zapcore.Entry{
		Level:      Level(meta.Level()),
		Time:       f.now(),
		LoggerName: meta.Target(),
		Message:    msg,
		Caller:     zapcore.NewEntryCaller(0, meta.File(), meta.Line(), meta.File() != ""),
	}

	zfields := make([]zapcore.Field, 0, len(fields)+1)
	if scope := eventfields.Scope(ctx, ev); scope != "" {
		zfields = append(zfields, zap.String("span", scope))
	}
	for _, fv := range fields {
		zfields = append(zfields, zap.Any(fv.Field.Name(), fv.Value))
	}

	buf, err := f.encoder.EncodeEntry(entry, zfields)
	if err != nil {
		return err
	}
	defer buf.Free()
	_, err = w.Write(buf.Bytes())
	return err
}

// Level maps a tracing level to a zap level.
func Level(l tracing.Level) zapcore.Level {
	switch l {
	case tracing.LevelTrace:
		return TraceLevel
	case tracing.LevelDebug:
		return zapcore.DebugLevel
	case tracing.LevelInfo:
		return zapcore.InfoLevel
	case tracing.LevelWarn:
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}

func capitalLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("TRACE")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}
