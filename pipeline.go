package wypal

import (
	"strings"
	"unicode/utf8"
)

// Result is the outcome of one pipeline run.
type Result struct {
	// Text is the cleaned, trimmed output.
	Text string

	// Changes holds one description per rule that changed something, in
	// execution order.
	Changes []string

	// BeforeLength is the character count of the untrimmed source.
	BeforeLength int

	// AfterLength is the character count of Text.
	AfterLength int
}

// Changed reports whether cleaning altered the text. Leading and trailing
// whitespace is not counted, so a file ending in a newline is unchanged
// when no rule touched it.
func (r Result) Changed(source string) bool {
	return r.Text != strings.TrimSpace(source)
}

// clone returns a Result that shares no slices with r.
func (r Result) clone() Result {
	out := r
	if r.Changes != nil {
		out.Changes = append([]string(nil), r.Changes...)
	}
	return out
}

// Clean runs every enabled rule over source in table order, then trims
// leading and trailing whitespace. It is a pure function of its arguments.
func Clean(source string, cfg RuleConfig) Result {
	return cleanWith(defaultRules, source, cfg)
}

// defaultRules is built once; the table holds only compiled patterns and
// stateless substitutions.
var defaultRules = Rules()

// cleanWith runs the rules over LF text. CRLF input is converted first,
// since (?m)$ only matches before \n, and converted back at the end.
func cleanWith(rules []Rule, source string, cfg RuleConfig) Result {
	crlf := strings.Contains(source, "\r\n")
	text := strings.ReplaceAll(source, "\r\n", "\n")
	var changes []string

	for _, r := range rules {
		if !cfg.Enabled(r.Name) {
			continue
		}
		var desc string
		text, desc = r.Apply(text, cfg)
		if desc != "" {
			changes = append(changes, desc)
		}
	}

	text = strings.TrimSpace(text)
	if crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}

	return Result{
		Text:         text,
		Changes:      changes,
		BeforeLength: utf8.RuneCountInString(source),
		AfterLength:  utf8.RuneCountInString(text),
	}
}
