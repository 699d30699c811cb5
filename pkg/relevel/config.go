// config.go loads override rules from YAML.

package relevel

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/strongdm/relevel/pkg/tracing"
	"gopkg.in/yaml.v3"
)

// RuleConfig is the file form of a Rule.
//
//	rules:
//	  - location: core.x:42
//	    level: error
//	    to: warn
//	  - target: github.com/acme/noisy
//	    level: [error, warn]
//	    to: debug
type RuleConfig struct {
	Name     string          `mapstructure:"name"`
	Target   string          `mapstructure:"target"`
	Location *Location       `mapstructure:"location"`
	File     string          `mapstructure:"file"`
	Line     int             `mapstructure:"line"`
	Level    []tracing.Level `mapstructure:"level"`
	To       *tracing.Level  `mapstructure:"to"`
}

type rulesFile struct {
	Rules []map[string]any `yaml:"rules"`
}

// Rule converts the config to a Rule.
func (c RuleConfig) Rule() (Rule, error) {
	if c.To == nil {
		return Rule{}, errors.New(`missing "to" level`)
	}
	r := Rule{
		Name:   c.Name,
		Target: c.Target,
		File:   c.File,
		Line:   c.Line,
		Levels: c.Level,
		To:     *c.To,
	}
	if c.Location != nil {
		if c.File != "" || c.Line != 0 {
			return Rule{}, errors.New(`"location" cannot be combined with "file" or "line"`)
		}
		r.File, r.Line = c.Location.File, c.Location.Line
	}
	return r, nil
}

// LoadRules reads rules from YAML and validates them. All problems found are
// reported together.
func LoadRules(r io.Reader) (Rules, error) {
	var file rulesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	var (
		rules  Rules
		result *multierror.Error
	)
	for i, raw := range file.Rules {
		rule, err := decodeRule(raw)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		rules = append(rules, rule)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadRulesFile reads rules from a YAML file.
func LoadRulesFile(path string) (Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

func decodeRule(raw map[string]any) (Rule, error) {
	var cfg RuleConfig
	decodeConf := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	}

	decoder, err := mapstructure.NewDecoder(decodeConf)
	if err != nil {
		return Rule{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Rule{}, err
	}
	return cfg.Rule()
}
