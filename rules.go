package wypal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Substitution is one pattern step of a rule. Apply returns the rewritten
// text and the number of matches it replaced.
type Substitution interface {
	Apply(text string, cfg RuleConfig) (string, int)
}

// Rule is an entry of the cleanup table.
type Rule struct {
	// Name is the config flag that gates the rule.
	Name RuleName

	// Label is a fmt format taking the total match count.
	Label string

	// Subs run in order; each sees the output of the previous one.
	Subs []Substitution

	// describe overrides Label when the report needs more than the count.
	describe func(before string, count int, cfg RuleConfig) string
}

// Apply runs the rule's substitutions and returns the new text plus a
// change description, or "" when nothing matched.
func (r Rule) Apply(text string, cfg RuleConfig) (string, string) {
	out := text
	total := 0
	for _, s := range r.Subs {
		var n int
		out, n = s.Apply(out, cfg)
		total += n
	}
	if total == 0 {
		return text, ""
	}
	if r.describe != nil {
		return out, r.describe(text, total, cfg)
	}
	return out, fmt.Sprintf(r.Label, total)
}

// replace substitutes every match of re with an expansion template.
type replace struct {
	re   *regexp.Regexp
	repl string
}

func (s replace) Apply(text string, _ RuleConfig) (string, int) {
	n := len(s.re.FindAllStringIndex(text, -1))
	if n == 0 {
		return text, 0
	}
	return s.re.ReplaceAllString(text, s.repl), n
}

// replaceFunc substitutes every match of re with fn(match).
type replaceFunc struct {
	re *regexp.Regexp
	fn func(string) string
}

func (s replaceFunc) Apply(text string, _ RuleConfig) (string, int) {
	n := len(s.re.FindAllStringIndex(text, -1))
	if n == 0 {
		return text, 0
	}
	return s.re.ReplaceAllStringFunc(text, s.fn), n
}

// then runs a cleanup substitution only when the primary one matched. The
// reported count is the primary's.
type then struct {
	primary Substitution
	after   Substitution
}

func (s then) Apply(text string, cfg RuleConfig) (string, int) {
	out, n := s.primary.Apply(text, cfg)
	if n > 0 {
		out, _ = s.after.Apply(out, cfg)
	}
	return out, n
}

var (
	reBold        = regexp.MustCompile(`(?s)\*\*(.*?)\*\*`)
	reHeader      = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	reBulletItem  = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	reNumberItem  = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	reLink        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reCodeBlock   = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*\\n?(.*?)```")
	reInlineCode  = regexp.MustCompile("`([^`]+)`")
	reBlockquote  = regexp.MustCompile(`(?m)^[ \t]*>(?:[ \t]+|$)`)
	reTableLine   = regexp.MustCompile(`(?m)^\|.*\|$`)
	reTableRule   = regexp.MustCompile(`(?m)^\|[ \t:|-]*-[ \t:|-]*\|[ \t]*(?:\n|$)`)
	reDashRun     = regexp.MustCompile(`-+`)
	reDoubleQuote = regexp.MustCompile(`[“”„‟]`)
	reSingleQuote = regexp.MustCompile(`[‘’‚‛]`)
	reEllipsis    = regexp.MustCompile(`…`)
	reBullet      = regexp.MustCompile(`[•◦▪]`)
	reEmDash      = regexp.MustCompile(`—`)
	reEnDash      = regexp.MustCompile(`–`)

	reHeresA      = regexp.MustCompile(`(?i)\bHere['’]?s an?\b`)
	reWorthNoting = regexp.MustCompile(`(?i)\bIt['’]?s worth noting(?: that)?\b,?`)
	reConclusion  = regexp.MustCompile(`(?i)\bIn conclusion\b,?`)
	reTransition  = regexp.MustCompile(`(?i)\b(?:Furthermore|Moreover|Additionally|Moving on|On the other hand),?[ \t]+`)
	reHedge       = regexp.MustCompile(`(?i)\b(?:it['’]?s (?:important to|worth) (?:note|noting|remember)(?: that)?|perhaps|maybe|arguably|somewhat)\b[:,]?[ \t]*`)
	reParenOpen   = regexp.MustCompile(`\(\s{2,}`)
	reParenClose  = regexp.MustCompile(`,\s*\)`)

	reSeparator  = regexp.MustCompile(`(?m)^[ \t]*[-_*]{3,}[ \t]*$`)
	reBlankRun   = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
	reSpaceRun   = regexp.MustCompile(` {2,}`)
	reHSpaceRun  = regexp.MustCompile(`[ \t]{2,}`)
	reTrailingWS = regexp.MustCompile(`(?m)[ \t]+$`)

	reDashBetweenWords = regexp.MustCompile(`[A-Za-z0-9]\s*—\s*[A-Za-z0-9]`)
	reDashAfterColon   = regexp.MustCompile(`[:;]\s*—`)
)

// collapseSpaces tidies the gap a removed phrase leaves behind without
// touching line structure.
var collapseSpaces = replace{reHSpaceRun, " "}

// Rules returns the cleanup table in execution order. The order matters:
// later rules see the output of earlier ones, and the whitespace rules run
// last so they can close gaps left by removals.
func Rules() []Rule {
	return []Rule{
		// Structural markdown.
		{Name: RuleBold, Label: "Removed %d bold segments", Subs: []Substitution{
			replace{reBold, "${1}"},
		}},
		{Name: RuleItalic, Label: "Removed %d italic segments", Subs: []Substitution{
			italic{},
		}},
		{Name: RuleHeaders, Label: "Removed %d markdown headers", Subs: []Substitution{
			replace{reHeader, ""},
		}},
		{Name: RuleLists, Label: "Removed %d list markers", Subs: []Substitution{
			replace{reBulletItem, ""},
			replace{reNumberItem, ""},
		}},
		{Name: RuleLinks, Label: "Stripped %d markdown links", Subs: []Substitution{
			replace{reLink, "${1}"},
		}},
		{Name: RuleCode, Label: "Normalized code formatting (%d)", Subs: []Substitution{
			replace{reCodeBlock, "${1}"},
			replace{reInlineCode, "${1}"},
		}},
		{Name: RuleBlockquotes, Label: "Removed %d blockquote symbols", Subs: []Substitution{
			replace{reBlockquote, ""},
		}},
		{Name: RuleTables, Label: "Simplified %d table lines", Subs: []Substitution{
			replace{reTableRule, ""},
			replaceFunc{reTableLine, simplifyTableLine},
		}},

		// Typography.
		{Name: RuleSmartQuotes, Label: "Normalized %d smart quotes", Subs: []Substitution{
			replace{reDoubleQuote, `"`},
			replace{reSingleQuote, `'`},
		}},
		{Name: RuleEllipsis, Label: "Normalized %d ellipses", Subs: []Substitution{
			replace{reEllipsis, "..."},
		}},
		{Name: RuleBullets, Label: "Replaced %d bullet characters", Subs: []Substitution{
			replace{reBullet, "-"},
		}},
		{Name: RuleDashes, Subs: []Substitution{emDash{}}, describe: describeEmDash},
		{Name: RuleDashes, Label: "Replaced %d en dashes with hyphen", Subs: []Substitution{
			replace{reEnDash, "-"},
		}},

		// AI-style phrasing.
		{Name: RuleFormulaic, Label: "Trimmed %d formulaic phrases", Subs: []Substitution{
			then{replace{reHeresA, ""}, collapseSpaces},
			then{replace{reWorthNoting, ""}, collapseSpaces},
			then{replace{reConclusion, ""}, collapseSpaces},
		}},
		{Name: RuleTransitions, Label: "Removed %d transition phrases", Subs: []Substitution{
			replace{reTransition, ""},
		}},
		{Name: RuleHedging, Label: "Reduced %d hedging patterns", Subs: []Substitution{
			replace{reHedge, ""},
		}},
		{Name: RuleParenthetical, Label: "Normalized %d parenthetical artifacts", Subs: []Substitution{
			replace{reParenOpen, "("},
			replace{reParenClose, ")"},
		}},

		// Structural cleanup.
		{Name: RuleSeparators, Label: "Removed %d separators", Subs: []Substitution{
			replace{reSeparator, ""},
		}},
		{Name: RuleBreaks, Label: "Normalized %d excessive line breaks", Subs: []Substitution{
			replace{reBlankRun, "\n\n"},
		}},
		{Name: RuleSpacing, Label: "Fixed spacing (%d instances)", Subs: []Substitution{
			replace{reSpaceRun, " "},
			replace{reTrailingWS, ""},
		}},
	}
}

// simplifyTableLine blanks the pipes of a table row. Header rules such as
// |---|:--:| never reach it; reTableRule drops them with their newline.
func simplifyTableLine(line string) string {
	line = strings.ReplaceAll(line, "|", " ")
	return reDashRun.ReplaceAllString(line, "-")
}

// SuggestEmDash picks a strategy from how em dashes are used in text: comma
// when a dash sits between two words, colon when one follows ':' or ';',
// comma otherwise.
func SuggestEmDash(text string) EmDashStrategy {
	if reDashBetweenWords.MatchString(text) {
		return EmDashComma
	}
	if reDashAfterColon.MatchString(text) {
		return EmDashColon
	}
	return EmDashComma
}

// ChooseEmDash resolves the strategy actually applied to text.
func ChooseEmDash(text string, configured EmDashStrategy) EmDashStrategy {
	s := ParseEmDashStrategy(string(configured))
	if s == EmDashAuto {
		return SuggestEmDash(text)
	}
	return s
}

// emDash replaces em dashes using the configured or suggested strategy.
type emDash struct{}

func (emDash) Apply(text string, cfg RuleConfig) (string, int) {
	n := strings.Count(text, "—")
	if n == 0 {
		return text, 0
	}
	repl := ChooseEmDash(text, cfg.EmDashStrategy).Replacement()
	return reEmDash.ReplaceAllLiteralString(text, repl), n
}

func describeEmDash(before string, count int, cfg RuleConfig) string {
	return fmt.Sprintf("Replaced %d em dashes with %q", count, ChooseEmDash(before, cfg.EmDashStrategy))
}

// italic removes single-asterisk emphasis. A span opens at a '*' that is
// not preceded by '*' and is followed by a non-space, non-'*' character,
// and closes at the nearest later '*' that follows a non-space character
// and is not followed by another '*'.
//
// RE2 has no lookaround, so this is a scanner. Whether a '*' can close a
// span does not depend on where the span opened, so the nearest closer for
// every offset is precomputed and the whole pass stays linear.
type italic struct{}

func (italic) Apply(text string, _ RuleConfig) (string, int) {
	if strings.IndexByte(text, '*') < 0 {
		return text, 0
	}

	// nextClose[k] is the smallest closer offset >= k, or -1.
	nextClose := make([]int, len(text)+1)
	nextClose[len(text)] = -1
	for k := len(text) - 1; k >= 0; k-- {
		nextClose[k] = nextClose[k+1]
		if canCloseItalic(text, k) {
			nextClose[k] = k
		}
	}

	var sb strings.Builder
	count, last := 0, 0
	for i := 0; i < len(text); i++ {
		if !canOpenItalic(text, i) {
			continue
		}
		// The span body is non-empty, so the closer is at least two bytes on.
		end := nextClose[i+2]
		if end < 0 {
			continue
		}
		sb.WriteString(text[last:i])
		sb.WriteString(text[i+1 : end])
		last = end + 1
		i = end
		count++
	}
	if count == 0 {
		return text, 0
	}
	sb.WriteString(text[last:])
	return sb.String(), count
}

func canOpenItalic(text string, i int) bool {
	if text[i] != '*' || i+2 > len(text) {
		return false
	}
	if i > 0 && text[i-1] == '*' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i+1:])
	return r != '*' && !unicode.IsSpace(r)
}

func canCloseItalic(text string, k int) bool {
	if text[k] != '*' || k == 0 {
		return false
	}
	if k+1 < len(text) && text[k+1] == '*' {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:k])
	return !unicode.IsSpace(r)
}
