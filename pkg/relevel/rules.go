// rules.go provides declarative override rules that compile to a Check.

package relevel

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/strongdm/relevel/pkg/tracing"
)

// Rule rewrites the level of matching events to To. Empty criteria match
// anything; a rule must set at least one criterion.
type Rule struct {
	// Name matches the metadata name exactly.
	Name string

	// Target matches the metadata target or any target below it
	// ("github.com/acme/app" matches "github.com/acme/app/db").
	Target string

	// File matches the source file exactly or as a trailing path
	// ("core.x" matches "/src/app/core.x").
	File string

	// Line matches the source line. Requires File.
	Line int

	// Levels matches any of the listed original levels.
	Levels []tracing.Level

	// To is the level shown instead.
	To tracing.Level
}

// Matches reports whether meta satisfies every criterion of r.
func (r Rule) Matches(meta *tracing.Metadata) bool {
	if r.Name != "" && meta.Name() != r.Name {
		return false
	}
	if r.Target != "" && !targetMatches(meta.Target(), r.Target) {
		return false
	}
	if r.File != "" && !fileMatches(meta.File(), r.File) {
		return false
	}
	if r.Line != 0 && meta.Line() != r.Line {
		return false
	}
	if len(r.Levels) > 0 && !slices.Contains(r.Levels, meta.Level()) {
		return false
	}
	return true
}

// Validate checks the rule for mistakes that would make it never or always
// match unintentionally.
func (r Rule) Validate() error {
	var errs []error
	if r.Name == "" && r.Target == "" && r.File == "" && len(r.Levels) == 0 {
		errs = append(errs, errors.New("rule has no criteria"))
	}
	if r.Line < 0 {
		errs = append(errs, fmt.Errorf("line %d is negative", r.Line))
	}
	if r.Line != 0 && r.File == "" {
		errs = append(errs, errors.New("line requires file"))
	}
	for _, l := range r.Levels {
		if !l.Valid() {
			errs = append(errs, fmt.Errorf("invalid match level %d", int8(l)))
		}
	}
	if !r.To.Valid() {
		errs = append(errs, fmt.Errorf("invalid target level %d", int8(r.To)))
	}
	return errors.Join(errs...)
}

func (r Rule) String() string {
	var parts []string
	if r.Name != "" {
		parts = append(parts, "name="+strconv.Quote(r.Name))
	}
	if r.Target != "" {
		parts = append(parts, "target="+r.Target)
	}
	if r.File != "" {
		loc := r.File
		if r.Line > 0 {
			loc += ":" + strconv.Itoa(r.Line)
		}
		parts = append(parts, "location="+loc)
	}
	if len(r.Levels) > 0 {
		names := make([]string, len(r.Levels))
		for i, l := range r.Levels {
			names[i] = l.String()
		}
		parts = append(parts, "level="+strings.Join(names, "|"))
	}
	return strings.Join(parts, " ") + " -> " + r.To.String()
}

// Rules is an ordered list of rules. The first matching rule wins.
type Rules []Rule

// Check compiles the rules into a Check. Later changes to rs do not affect
// the returned Check.
func (rs Rules) Check() Check {
	rules := slices.Clone(rs)
	return func(meta *tracing.Metadata) (tracing.Level, bool) {
		for i := range rules {
			if rules[i].Matches(meta) {
				return rules[i].To, true
			}
		}
		return 0, false
	}
}

// Validate validates every rule and reports all problems at once.
func (rs Rules) Validate() error {
	var result *multierror.Error
	for i, r := range rs {
		if err := r.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("rule %d (%s): %w", i, r, err))
		}
	}
	return result.ErrorOrNil()
}

// Location is a source position written as "file:line" or "file".
type Location struct {
	File string
	Line int
}

// ParseLocation parses "core.x:42" or "core.x". A file name may itself
// contain colons ("C:/src/core.x"); only a numeric suffix is taken as the line.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, errors.New("empty location")
	}
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return Location{File: s}, nil
	}
	tail := s[i+1:]
	if tail != "" && strings.Trim(tail, "+-0123456789") != "" {
		return Location{File: s}, nil
	}
	line, err := strconv.Atoi(tail)
	if err != nil || line <= 0 {
		return Location{}, fmt.Errorf("invalid line in location %q", s)
	}
	if i == 0 {
		return Location{}, fmt.Errorf("missing file in location %q", s)
	}
	return Location{File: s[:i], Line: line}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Location) String() string {
	if l.Line <= 0 {
		return l.File
	}
	return l.File + ":" + strconv.Itoa(l.Line)
}

// At returns a rule that rewrites events at loc with level from to level to.
func At(loc string, from, to tracing.Level) (Rule, error) {
	parsed, err := ParseLocation(loc)
	if err != nil {
		return Rule{}, err
	}
	return Rule{File: parsed.File, Line: parsed.Line, Levels: []tracing.Level{from}, To: to}, nil
}

func targetMatches(target, prefix string) bool {
	return target == prefix || strings.HasPrefix(target, strings.TrimSuffix(prefix, "/")+"/")
}

func fileMatches(file, want string) bool {
	return file == want || strings.HasSuffix(file, "/"+strings.TrimPrefix(want, "/"))
}
