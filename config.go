package wypal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleName identifies one flag-gated cleanup rule.
type RuleName string

// Rule names, in execution order.
const (
	RuleBold          RuleName = "bold"
	RuleItalic        RuleName = "italic"
	RuleHeaders       RuleName = "headers"
	RuleLists         RuleName = "lists"
	RuleLinks         RuleName = "links"
	RuleCode          RuleName = "code"
	RuleBlockquotes   RuleName = "blockquotes"
	RuleTables        RuleName = "tables"
	RuleSmartQuotes   RuleName = "smartQuotes"
	RuleEllipsis      RuleName = "ellipsis"
	RuleBullets       RuleName = "bullets"
	RuleDashes        RuleName = "dashes"
	RuleFormulaic     RuleName = "formulaic"
	RuleTransitions   RuleName = "transitions"
	RuleHedging       RuleName = "hedging"
	RuleParenthetical RuleName = "parenthetical"
	RuleSeparators    RuleName = "separators"
	RuleBreaks        RuleName = "breaks"
	RuleSpacing       RuleName = "spacing"
)

// RuleNames returns every rule name in execution order.
func RuleNames() []RuleName {
	return []RuleName{
		RuleBold, RuleItalic, RuleHeaders, RuleLists,
		RuleLinks, RuleCode, RuleBlockquotes, RuleTables,
		RuleSmartQuotes, RuleEllipsis, RuleBullets, RuleDashes,
		RuleFormulaic, RuleTransitions, RuleHedging, RuleParenthetical,
		RuleSeparators, RuleBreaks, RuleSpacing,
	}
}

// LookupRule resolves a rule name case-insensitively, so "smartquotes" and
// "smartQuotes" are the same rule.
func LookupRule(name string) (RuleName, bool) {
	name = strings.TrimSpace(name)
	for _, r := range RuleNames() {
		if strings.EqualFold(string(r), name) {
			return r, true
		}
	}
	return "", false
}

// EmDashStrategy is the replacement policy for em dashes.
type EmDashStrategy string

// Em dash strategies.
const (
	EmDashAuto   EmDashStrategy = "auto"
	EmDashComma  EmDashStrategy = "comma"
	EmDashHyphen EmDashStrategy = "hyphen"
	EmDashColon  EmDashStrategy = "colon"
	EmDashPeriod EmDashStrategy = "period"
	EmDashRemove EmDashStrategy = "remove"
)

// Valid reports whether s is one of the known strategies.
func (s EmDashStrategy) Valid() bool {
	switch s {
	case EmDashAuto, EmDashComma, EmDashHyphen, EmDashColon, EmDashPeriod, EmDashRemove:
		return true
	}
	return false
}

// Replacement returns the text an em dash is replaced with. Auto and unknown
// strategies fall back to the comma replacement.
func (s EmDashStrategy) Replacement() string {
	switch s {
	case EmDashHyphen:
		return " - "
	case EmDashColon:
		return ": "
	case EmDashPeriod:
		return ". "
	case EmDashRemove:
		return " "
	default:
		return ", "
	}
}

// ParseEmDashStrategy maps a name to a strategy. Unknown values become
// EmDashAuto; an invalid strategy is never an error.
func ParseEmDashStrategy(name string) EmDashStrategy {
	s := EmDashStrategy(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return EmDashAuto
	}
	return s
}

// RuleConfig selects which rules run and how em dashes are replaced.
// A rule missing from Rules is disabled, so the zero value changes nothing.
type RuleConfig struct {
	Rules          map[RuleName]bool
	EmDashStrategy EmDashStrategy
}

// Enabled reports whether the named rule is switched on.
func (c RuleConfig) Enabled(name RuleName) bool {
	return c.Rules[name]
}

// With returns a copy of c with the named rules set to on.
func (c RuleConfig) With(on bool, names ...RuleName) RuleConfig {
	out := c.Clone()
	if out.Rules == nil {
		out.Rules = make(map[RuleName]bool, len(names))
	}
	for _, n := range names {
		out.Rules[n] = on
	}
	return out
}

// Clone returns a deep copy of c.
func (c RuleConfig) Clone() RuleConfig {
	out := RuleConfig{EmDashStrategy: c.EmDashStrategy}
	if c.Rules != nil {
		out.Rules = make(map[RuleName]bool, len(c.Rules))
		for k, v := range c.Rules {
			out.Rules[k] = v
		}
	}
	return out
}

// EnabledRules lists the enabled rules in execution order.
func (c RuleConfig) EnabledRules() []RuleName {
	var names []RuleName
	for _, n := range RuleNames() {
		if c.Rules[n] {
			names = append(names, n)
		}
	}
	return names
}

// Fingerprint returns a stable string identifying the effective config.
// Two configs with the same fingerprint clean any text identically.
func (c RuleConfig) Fingerprint() string {
	names := c.EnabledRules()
	parts := make([]string, 0, len(names)+1)
	for _, n := range names {
		parts = append(parts, string(n))
	}
	parts = append(parts, "emDash="+string(ParseEmDashStrategy(string(c.EmDashStrategy))))
	return strings.Join(parts, ",")
}

// NewRuleConfig builds a config from loosely keyed flags. Unknown keys are
// ignored and the strategy is parsed leniently.
func NewRuleConfig(flags map[string]bool, strategy string) RuleConfig {
	cfg := RuleConfig{
		Rules:          make(map[RuleName]bool, len(flags)),
		EmDashStrategy: ParseEmDashStrategy(strategy),
	}
	for k, v := range flags {
		if name, ok := LookupRule(k); ok {
			cfg.Rules[name] = v
		}
	}
	return cfg
}

// presets mirror the option sets offered in the editor UI.
var presets = map[string][]RuleName{
	"common": {
		RuleBold, RuleItalic, RuleHeaders, RuleLists, RuleSmartQuotes,
		RuleDashes, RuleSpacing, RuleBreaks, RuleSeparators,
	},
	"light": {
		RuleBold, RuleItalic, RuleHeaders, RuleLists, RuleLinks,
		RuleSmartQuotes, RuleSpacing,
	},
	"medium": {
		RuleBold, RuleItalic, RuleHeaders, RuleLists, RuleLinks, RuleCode,
		RuleSmartQuotes, RuleDashes, RuleEllipsis, RuleSpacing, RuleBreaks,
		RuleSeparators,
	},
	"deep":    RuleNames(),
	"nuclear": RuleNames(),
}

// PresetNames returns the available preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Preset returns the named preset with the auto em dash strategy. Every rule
// the preset does not list is explicitly disabled.
func Preset(name string) (RuleConfig, bool) {
	rules, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return RuleConfig{}, false
	}
	cfg := RuleConfig{
		Rules:          make(map[RuleName]bool, len(RuleNames())),
		EmDashStrategy: EmDashAuto,
	}
	for _, n := range RuleNames() {
		cfg.Rules[n] = false
	}
	for _, n := range rules {
		cfg.Rules[n] = true
	}
	return cfg, true
}

// DefaultConfig returns the "deep" preset: every rule on, auto em dashes.
func DefaultConfig() RuleConfig {
	cfg, _ := Preset("deep")
	return cfg
}

const emDashKey = "emDashStrategy"

// MarshalJSON encodes the config as a flat object of rule flags plus
// "emDashStrategy", the shape editors persist.
func (c RuleConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.flatten())
}

// UnmarshalJSON decodes the flat shape. Unknown keys and non-boolean rule
// values are ignored.
func (c *RuleConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("rule config: %w", err)
	}
	*c = fromFlat(raw)
	return nil
}

// MarshalYAML encodes the config in the same flat shape as MarshalJSON.
func (c RuleConfig) MarshalYAML() (any, error) {
	return c.flatten(), nil
}

// UnmarshalYAML decodes the flat shape from a YAML mapping.
func (c *RuleConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("rule config: %w", err)
	}
	*c = fromFlat(raw)
	return nil
}

func (c RuleConfig) flatten() map[string]any {
	out := make(map[string]any, len(RuleNames())+1)
	for _, n := range RuleNames() {
		out[string(n)] = c.Rules[n]
	}
	out[emDashKey] = string(ParseEmDashStrategy(string(c.EmDashStrategy)))
	return out
}

func fromFlat(raw map[string]any) RuleConfig {
	cfg := RuleConfig{
		Rules:          make(map[RuleName]bool, len(raw)),
		EmDashStrategy: EmDashAuto,
	}
	for k, v := range raw {
		if k == emDashKey {
			if s, ok := v.(string); ok {
				cfg.EmDashStrategy = ParseEmDashStrategy(s)
			}
			continue
		}
		name, ok := LookupRule(k)
		if !ok {
			continue
		}
		if b, ok := v.(bool); ok {
			cfg.Rules[name] = b
		}
	}
	return cfg
}

// ParseRuleConfig decodes a rule file. YAML is a superset of JSON, so one
// decoder handles both.
func ParseRuleConfig(data []byte) (RuleConfig, error) {
	var cfg RuleConfig
	if len(strings.TrimSpace(string(data))) == 0 {
		return RuleConfig{EmDashStrategy: EmDashAuto}, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RuleConfig{}, err
	}
	return cfg, nil
}
