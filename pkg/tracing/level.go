// level.go defines event severity levels and callsite kinds.

package tracing

import (
	"fmt"
	"strings"
)

// Level is the severity attached to a Metadata.
// Higher values are more severe.
type Level int8

const (
	// LevelTrace is the most verbose level.
	LevelTrace Level = iota

	// LevelDebug is for diagnostic detail useful while developing.
	LevelDebug

	// LevelInfo is for routine operational messages.
	LevelInfo

	// LevelWarn indicates something unexpected that did not fail an operation.
	LevelWarn

	// LevelError indicates a failed operation.
	LevelError
)

var levelNames = [...]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the upper-case name of the level.
func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return fmt.Sprintf("LEVEL(%d)", int8(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelTrace && l <= LevelError
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and accepts "ERR" and "WARNING" as aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERR", "ERROR":
		return LevelError, nil
	}
	return 0, fmt.Errorf("invalid level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level %d", int8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Kind tells whether a callsite declares a point-in-time event or a span.
type Kind uint8

const (
	// KindEvent marks metadata for an event.
	KindEvent Kind = 1 << iota

	// KindSpan marks metadata for a span.
	KindSpan
)

// IsEvent reports whether k includes KindEvent.
func (k Kind) IsEvent() bool { return k&KindEvent != 0 }

// IsSpan reports whether k includes KindSpan.
func (k Kind) IsSpan() bool { return k&KindSpan != 0 }

func (k Kind) String() string {
	switch {
	case k.IsEvent() && k.IsSpan():
		return "event|span"
	case k.IsEvent():
		return "event"
	case k.IsSpan():
		return "span"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}
