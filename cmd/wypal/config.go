package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dacharyc/wypal"
)

// config holds configuration from profile files
type config struct {
	preset      string
	enable      string
	disable     string
	rulesFile   string
	emDash      string
	changes     bool
	diff        bool
	views       bool
	html        bool
	lineByLine  bool
	context     int
	lineNumbers int
	patch       bool
	statistics  bool
	colorSpec   string
	noColor     bool
	algorithm   string
	outDir      string
	statePath   string
	verbose     bool
}

// findConfigFile returns the path to the config file for the given profile.
// If a profile is specified but the file doesn't exist, it returns an error.
func findConfigFile(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil // No home dir, use defaults
	}

	if profile == "" {
		path := filepath.Join(home, ".wypalrc")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		path = filepath.Join(xdgConfig, "wypal", "config")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", nil
	}

	path := filepath.Join(home, ".wypalrc."+profile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("profile config file not found: %s", path)
	}
	return path, nil
}

// loadConfig reads a config file and returns the configuration.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var key, value string
		if idx := strings.Index(line, "="); idx >= 0 {
			key = strings.TrimSpace(line[:idx])
			value = strings.TrimSpace(line[idx+1:])
		} else {
			key = line
			value = "true"
		}

		if err := applyConfigOption(&cfg, key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return cfg, scanner.Err()
}

// defaultConfig returns a config with default values
func defaultConfig() config {
	return config{
		preset:      "deep",
		lineNumbers: -1,
		algorithm:   string(wypal.AlgorithmLCS),
	}
}

// applyStringOption handles string config options
func applyStringOption(cfg *config, key, value string) bool {
	switch key {
	case "enable", "e":
		cfg.enable = value
	case "disable", "x":
		cfg.disable = value
	case "rules", "r":
		cfg.rulesFile = value
	case "em-dash", "m":
		cfg.emDash = value
	case "color":
		cfg.colorSpec = value
	case "out-dir", "o":
		cfg.outDir = value
	case "state":
		cfg.statePath = value
	default:
		return false
	}
	return true
}

// applyBoolOption handles boolean config options
func applyBoolOption(cfg *config, key, value string) bool {
	switch key {
	case "changes", "c":
		cfg.changes = parseBool(value)
	case "diff", "d":
		cfg.diff = parseBool(value)
	case "views":
		cfg.views = parseBool(value)
	case "html":
		cfg.html = parseBool(value)
	case "line-mode":
		cfg.lineByLine = parseBool(value)
	case "patch":
		cfg.patch = parseBool(value)
	case "statistics", "s":
		cfg.statistics = parseBool(value)
	case "no-color":
		cfg.noColor = parseBool(value)
	case "verbose":
		cfg.verbose = parseBool(value)
	default:
		return false
	}
	return true
}

// applyIntOption handles integer config options
func applyIntOption(cfg *config, key, value string) bool {
	switch key {
	case "line-numbers", "L":
		cfg.lineNumbers = parseInt(value, -1)
	case "context", "C":
		cfg.context = parseInt(value, 0)
	default:
		return false
	}
	return true
}

// applyConfigOption sets a config field based on key and value
func applyConfigOption(cfg *config, key, value string) error {
	if applyStringOption(cfg, key, value) {
		return nil
	}
	if applyBoolOption(cfg, key, value) {
		return nil
	}
	if applyIntOption(cfg, key, value) {
		return nil
	}

	// Special cases with validation
	switch key {
	case "preset", "p":
		if _, ok := wypal.Preset(value); !ok {
			return fmt.Errorf("unknown preset: %s (use %s)", value, strings.Join(wypal.PresetNames(), ", "))
		}
		cfg.preset = value
	case "algorithm", "A":
		if _, ok := wypal.ParseAlgorithm(value); !ok {
			return fmt.Errorf("invalid algorithm: %s (use lcs or histogram)", value)
		}
		cfg.algorithm = value
	default:
		return fmt.Errorf("unknown option: %s", key)
	}
	return nil
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "yes" || s == "1" || s == ""
}

// parseInt parses an integer value from a string
func parseInt(s string, defaultVal int) int {
	var val int
	_, err := fmt.Sscanf(s, "%d", &val)
	if err != nil {
		return defaultVal
	}
	return val
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// buildRuleConfig resolves the effective rule configuration: the preset,
// then the rules file, then --enable and --disable, then --em-dash.
func buildRuleConfig(cfg config) (wypal.RuleConfig, error) {
	rc, ok := wypal.Preset(cfg.preset)
	if !ok {
		return wypal.RuleConfig{}, fmt.Errorf("unknown preset: %s", cfg.preset)
	}

	if cfg.rulesFile != "" {
		data, err := os.ReadFile(cfg.rulesFile)
		if err != nil {
			return wypal.RuleConfig{}, fmt.Errorf("read rules: %w", err)
		}
		fileCfg, err := wypal.ParseRuleConfig(data)
		if err != nil {
			return wypal.RuleConfig{}, fmt.Errorf("parse rules %s: %w", cfg.rulesFile, err)
		}
		for name, on := range fileCfg.Rules {
			rc.Rules[name] = on
		}
		if fileCfg.EmDashStrategy != "" {
			rc.EmDashStrategy = fileCfg.EmDashStrategy
		}
	}

	for _, list := range []struct {
		value string
		on    bool
	}{{cfg.enable, true}, {cfg.disable, false}} {
		for _, item := range splitList(list.value) {
			name, ok := wypal.LookupRule(item)
			if !ok {
				return wypal.RuleConfig{}, fmt.Errorf("unknown rule: %s", item)
			}
			rc.Rules[name] = list.on
		}
	}

	if cfg.emDash != "" {
		rc.EmDashStrategy = wypal.ParseEmDashStrategy(cfg.emDash)
	}
	return rc, nil
}
