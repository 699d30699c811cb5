// Package relevel changes the displayed severity of structured events
// without touching the events themselves.
//
// An EventFormatter sits in front of any tracing.Formatter. For each event it
// asks a Check whether the level should be replaced. If not, the event goes
// downstream as is. If so, relevel builds a new event: the descriptor is
// cloned with the new level (sharing the original field declarations and
// callsite identity, so field values stay valid), the original values are
// captured into a bounded buffer, and the rebuilt event keeps the
// original parent relation.
//
// # Core Components
//
//   - EventFormatter: the override wrapper
//   - FieldCapture: fixed-capacity, single-pass capture of field values
//   - Rule / Rules: declarative checks, loadable from YAML with LoadRules
//   - Retention: whether rebuilt event storage is recycled or left to the GC
//
// # Quick Start
//
//	rules := relevel.Rules{{File: "core.x", Line: 42,
//	    Levels: []tracing.Level{tracing.LevelError}, To: tracing.LevelWarn}}
//	sub := tracing.NewSubscriber(
//	    tracing.WithFormatter(hclogfmt.New()),
//	    tracing.MapFormatter(func(f tracing.Formatter) tracing.Formatter {
//	        return relevel.New(f, rules.Check())
//	    }),
//	)
//
// # Limits
//
//   - A rebuilt event carries at most Capacity values; the rest are dropped
//     and reported through WithOnTruncated.
//   - Field values of a rebuilt event are Captured values. The bundled
//     formatters unwrap them and render exactly what they render for the
//     original event. Other formatters see a Captured: fmt verbs format the
//     original value, but code that switches on the concrete type, reflects
//     on it, or encodes it (encoding/json, hclog slice rendering) sees the
//     wrapper. Such formatters should call Uncapture first.
//   - RecycleScratch is only safe with downstream formatters that keep no
//     reference to the event after FormatEvent returns.
package relevel
