package wypal

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLookupRule(t *testing.T) {
	tests := []struct {
		name   string
		want   RuleName
		wantOK bool
	}{
		{"bold", RuleBold, true},
		{"SMARTQUOTES", RuleSmartQuotes, true},
		{" parenthetical ", RuleParenthetical, true},
		{"sparkles", "", false},
	}
	for _, tt := range tests {
		got, ok := LookupRule(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LookupRule(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseEmDashStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  EmDashStrategy
	}{
		{"comma", EmDashComma},
		{" Colon ", EmDashColon},
		{"remove", EmDashRemove},
		{"auto", EmDashAuto},
		{"", EmDashAuto},
		{"semicolon", EmDashAuto},
	}
	for _, tt := range tests {
		if got := ParseEmDashStrategy(tt.input); got != tt.want {
			t.Errorf("ParseEmDashStrategy(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEmDashReplacement(t *testing.T) {
	tests := []struct {
		s    EmDashStrategy
		want string
	}{
		{EmDashComma, ", "},
		{EmDashHyphen, " - "},
		{EmDashColon, ": "},
		{EmDashPeriod, ". "},
		{EmDashRemove, " "},
		{EmDashAuto, ", "},
	}
	for _, tt := range tests {
		if got := tt.s.Replacement(); got != tt.want {
			t.Errorf("%q.Replacement() = %q, want %q", tt.s, got, tt.want)
		}
	}
	if EmDashStrategy("bogus").Valid() {
		t.Error("bogus strategy reported valid")
	}
}

func TestNewRuleConfig(t *testing.T) {
	cfg := NewRuleConfig(map[string]bool{"bold": true, "Italic": false, "unknown": true}, "bad")

	want := map[RuleName]bool{RuleBold: true, RuleItalic: false}
	if !reflect.DeepEqual(cfg.Rules, want) {
		t.Errorf("Rules = %v, want %v", cfg.Rules, want)
	}
	if cfg.EmDashStrategy != EmDashAuto {
		t.Errorf("EmDashStrategy = %q, want auto", cfg.EmDashStrategy)
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := only(RuleBold)
	next := base.With(true, RuleItalic)

	if base.Enabled(RuleItalic) {
		t.Error("With mutated the receiver")
	}
	if !next.Enabled(RuleBold) || !next.Enabled(RuleItalic) {
		t.Errorf("With result = %v", next.Rules)
	}

	clone := next.Clone()
	clone.Rules[RuleBold] = false
	if !next.Enabled(RuleBold) {
		t.Error("Clone shares its map")
	}
}

func TestPresets(t *testing.T) {
	wantNames := []string{"common", "deep", "light", "medium", "nuclear"}
	if got := PresetNames(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("PresetNames() = %v, want %v", got, wantNames)
	}

	light, ok := Preset("Light")
	if !ok {
		t.Fatal("Preset(\"Light\") not found")
	}
	wantLight := []RuleName{RuleBold, RuleItalic, RuleHeaders, RuleLists, RuleLinks, RuleSmartQuotes, RuleSpacing}
	if got := light.EnabledRules(); !reflect.DeepEqual(got, wantLight) {
		t.Errorf("light rules = %v, want %v", got, wantLight)
	}
	if len(light.Rules) != len(RuleNames()) {
		t.Errorf("light sets %d rules, want every rule set explicitly", len(light.Rules))
	}

	if _, ok := Preset("extreme"); ok {
		t.Error("unknown preset found")
	}

	def := DefaultConfig()
	if !reflect.DeepEqual(def.EnabledRules(), RuleNames()) {
		t.Errorf("DefaultConfig rules = %v", def.EnabledRules())
	}
	if def.EmDashStrategy != EmDashAuto {
		t.Errorf("DefaultConfig strategy = %q", def.EmDashStrategy)
	}
}

func TestFingerprint(t *testing.T) {
	a := only(RuleBold, RuleSpacing)
	b := RuleConfig{Rules: map[RuleName]bool{RuleSpacing: true, RuleBold: true, RuleItalic: false}, EmDashStrategy: "bogus"}
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("equivalent configs differ: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
	c := a.With(true, RuleItalic)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different configs share a fingerprint")
	}
}

func TestRuleConfigJSON(t *testing.T) {
	cfg := NewRuleConfig(map[string]bool{"bold": true}, "colon")
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != len(RuleNames())+1 {
		t.Errorf("encoded %d keys, want %d", len(raw), len(RuleNames())+1)
	}
	if raw["bold"] != true || raw["italic"] != false || raw["emDashStrategy"] != "colon" {
		t.Errorf("encoded = %s", data)
	}

	var back RuleConfig
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Fingerprint() != cfg.Fingerprint() {
		t.Errorf("round trip = %q, want %q", back.Fingerprint(), cfg.Fingerprint())
	}
}

func TestRuleConfigJSONLenient(t *testing.T) {
	var cfg RuleConfig
	data := `{"bold":true,"foo":1,"italic":"yes","emDashStrategy":"weird"}`
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !cfg.Enabled(RuleBold) || cfg.Enabled(RuleItalic) {
		t.Errorf("Rules = %v", cfg.Rules)
	}
	if cfg.EmDashStrategy != EmDashAuto {
		t.Errorf("EmDashStrategy = %q, want auto", cfg.EmDashStrategy)
	}

	if err := json.Unmarshal([]byte(`[1,2]`), &cfg); err == nil {
		t.Error("expected error for non-object config")
	}
}

func TestParseRuleConfig(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantErr  bool
		enabled  []RuleName
		strategy EmDashStrategy
	}{
		{
			name:     "yaml",
			data:     "bold: true\nspacing: false\nemDashStrategy: hyphen\n",
			enabled:  []RuleName{RuleBold},
			strategy: EmDashHyphen,
		},
		{
			name:     "json",
			data:     `{"dashes": true, "breaks": true}`,
			enabled:  []RuleName{RuleDashes, RuleBreaks},
			strategy: EmDashAuto,
		},
		{
			name:     "empty",
			data:     "  \n",
			strategy: EmDashAuto,
		},
		{
			name:    "invalid",
			data:    "bold: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseRuleConfig([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRuleConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := cfg.EnabledRules(); !reflect.DeepEqual(got, tt.enabled) {
				t.Errorf("EnabledRules() = %v, want %v", got, tt.enabled)
			}
			if cfg.EmDashStrategy != tt.strategy {
				t.Errorf("EmDashStrategy = %q, want %q", cfg.EmDashStrategy, tt.strategy)
			}
		})
	}
}

func TestRuleConfigYAMLRoundTrip(t *testing.T) {
	cfg, _ := Preset("medium")
	cfg.EmDashStrategy = EmDashPeriod

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseRuleConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Fingerprint() != cfg.Fingerprint() {
		t.Errorf("round trip = %q, want %q", back.Fingerprint(), cfg.Fingerprint())
	}
}
