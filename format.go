package wypal

import (
	"fmt"
	"html"
	"strings"
)

// FormatOptions configures diff output formatting.
type FormatOptions struct {
	// StartRemoved is the string to mark the beginning of removed text.
	// Default: "[-"
	StartRemoved string

	// StopRemoved is the string to mark the end of removed text.
	// Default: "-]"
	StopRemoved string

	// StartAdded is the string to mark the beginning of added text.
	// Default: "{+"
	StartAdded string

	// StopAdded is the string to mark the end of added text.
	// Default: "+}"
	StopAdded string

	// NoRemoved, when true, suppresses removed tokens from inline output.
	NoRemoved bool

	// NoAdded, when true, suppresses added tokens from inline output.
	NoAdded bool

	// NoCommon, when true, suppresses kept tokens from inline output.
	NoCommon bool

	// UseColor enables ANSI color output. When true, RemovedColor and
	// AddedColor are used instead of text markers.
	UseColor bool

	// RemovedColor is the ANSI escape sequence for removed text.
	RemovedColor string

	// AddedColor is the ANSI escape sequence for added text.
	AddedColor string

	// ColorReset is the ANSI escape sequence to reset colors.
	// Default: "\033[0m"
	ColorReset string

	// HTML escapes all text and wraps changes in
	// <span class="diff-removed"> and <span class="diff-added">.
	// It takes precedence over UseColor and the markers.
	HTML bool

	// RepeatMarkers, when true, closes and reopens markers around newlines
	// inside a change so every line stays self-contained.
	RepeatMarkers bool

	// Compact merges changes separated only by whitespace into one removed
	// run and one added run.
	Compact bool
}

// ANSI escape code constants
const (
	ANSIReset        = "\033[0m"
	ANSIRemovedColor = "\033[0;31;1m" // bold red
	ANSIAddedColor   = "\033[0;32;1m" // bold green
	ANSIBold         = "\033[1m"
)

// HTML classes used by the HTML renderer.
const (
	HTMLRemovedClass = "diff-removed"
	HTMLAddedClass   = "diff-added"
)

// ForegroundColors maps color names to ANSI foreground escape codes.
var ForegroundColors = map[string]string{
	"black":         "\033[30m",
	"red":           "\033[31m",
	"green":         "\033[32m",
	"yellow":        "\033[33m",
	"blue":          "\033[34m",
	"magenta":       "\033[35m",
	"cyan":          "\033[36m",
	"white":         "\033[37m",
	"brightblack":   "\033[90m",
	"brightred":     "\033[91m",
	"brightgreen":   "\033[92m",
	"brightyellow":  "\033[93m",
	"brightblue":    "\033[94m",
	"brightmagenta": "\033[95m",
	"brightcyan":    "\033[96m",
	"brightwhite":   "\033[97m",
}

// BackgroundColors maps color names to ANSI background escape codes.
var BackgroundColors = map[string]string{
	"black":         "\033[40m",
	"red":           "\033[41m",
	"green":         "\033[42m",
	"yellow":        "\033[43m",
	"blue":          "\033[44m",
	"magenta":       "\033[45m",
	"cyan":          "\033[46m",
	"white":         "\033[47m",
	"brightblack":   "\033[100m",
	"brightred":     "\033[101m",
	"brightgreen":   "\033[102m",
	"brightyellow":  "\033[103m",
	"brightblue":    "\033[104m",
	"brightmagenta": "\033[105m",
	"brightcyan":    "\033[106m",
	"brightwhite":   "\033[107m",
}

// ColorNames returns a list of all available color names.
func ColorNames() []string {
	return []string{
		"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
		"brightblack", "brightred", "brightgreen", "brightyellow",
		"brightblue", "brightmagenta", "brightcyan", "brightwhite",
	}
}

// ParseColor parses a color specification and returns the ANSI escape sequence.
// The spec can be:
//   - A single color name: "red" -> foreground red
//   - Foreground:background: "red:white" -> red text on white background
//   - Empty string returns empty string (no color)
func ParseColor(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", nil
	}

	parts := strings.SplitN(spec, ":", 2)
	fgName := strings.ToLower(strings.TrimSpace(parts[0]))

	var result string

	if fgName != "" {
		fg, ok := ForegroundColors[fgName]
		if !ok {
			return "", fmt.Errorf("unknown color: %s", fgName)
		}
		result = fg
	}

	if len(parts) > 1 {
		bgName := strings.ToLower(strings.TrimSpace(parts[1]))
		if bgName != "" {
			bg, ok := BackgroundColors[bgName]
			if !ok {
				return "", fmt.Errorf("unknown background color: %s", bgName)
			}
			result += bg
		}
	}

	return result, nil
}

// ParseColorSpec parses "removed_color,added_color" where each color is
// "fg" or "fg:bg". With a single color the default added color is used.
func ParseColorSpec(spec string) (removedColor, addedColor string, err error) {
	parts := strings.SplitN(spec, ",", 2)

	removedColor, err = ParseColor(parts[0])
	if err != nil {
		return "", "", fmt.Errorf("removed color: %w", err)
	}

	if len(parts) > 1 {
		addedColor, err = ParseColor(parts[1])
		if err != nil {
			return "", "", fmt.Errorf("added color: %w", err)
		}
	} else {
		addedColor = ANSIAddedColor
	}

	return removedColor, addedColor, nil
}

// DefaultFormatOptions returns FormatOptions with default settings.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		StartRemoved: "[-",
		StopRemoved:  "-]",
		StartAdded:   "{+",
		StopAdded:    "+}",
		ColorReset:   ANSIReset,
		RemovedColor: ANSIRemovedColor,
		AddedColor:   ANSIAddedColor,
	}
}

// withDefaults fills in empty markers and the color reset.
func (opts FormatOptions) withDefaults() FormatOptions {
	if opts.StartRemoved == "" && opts.StopRemoved == "" {
		opts.StartRemoved = "[-"
		opts.StopRemoved = "-]"
	}
	if opts.StartAdded == "" && opts.StopAdded == "" {
		opts.StartAdded = "{+"
		opts.StopAdded = "+}"
	}
	if opts.ColorReset == "" {
		opts.ColorReset = ANSIReset
	}
	return opts
}

// mark wraps a changed token for display.
func (opts FormatOptions) mark(token string, op Operation) string {
	if opts.HTML {
		class := HTMLAddedClass
		if op == Removed {
			class = HTMLRemovedClass
		}
		return `<span class="` + class + `">` + html.EscapeString(token) + `</span>`
	}

	var start, stop string
	switch {
	case opts.UseColor && op == Removed:
		start, stop = opts.RemovedColor, opts.ColorReset
	case opts.UseColor:
		start, stop = opts.AddedColor, opts.ColorReset
	case op == Removed:
		start, stop = opts.StartRemoved, opts.StopRemoved
	default:
		start, stop = opts.StartAdded, opts.StopAdded
	}

	if opts.RepeatMarkers && strings.Contains(token, "\n") {
		token = strings.ReplaceAll(token, "\n", stop+"\n"+start)
	}
	return start + token + stop
}

// prepare groups diffs into display runs.
func (opts FormatOptions) prepare(diffs []Diff) []Diff {
	if opts.Compact {
		diffs = AbsorbWhitespace(diffs)
	}
	return AggregateDiffs(diffs)
}

// plain renders an unchanged token.
func (opts FormatOptions) plain(token string) string {
	if opts.HTML {
		return html.EscapeString(token)
	}
	return token
}

// FormatDiff renders diffs inline: kept text as-is, removed and added runs
// wrapped in markers (or colors, or HTML spans). Adjacent tokens of the same
// kind are merged first, so "a b" removed shows as one marked run.
func FormatDiff(diffs []Diff, opts FormatOptions) string {
	opts = opts.withDefaults()

	var sb strings.Builder
	for _, d := range opts.prepare(diffs) {
		switch d.Type {
		case Kept:
			if !opts.NoCommon {
				sb.WriteString(opts.plain(d.Token))
			}
		case Removed:
			if !opts.NoRemoved {
				sb.WriteString(opts.mark(d.Token, Removed))
			}
		case Added:
			if !opts.NoAdded {
				sb.WriteString(opts.mark(d.Token, Added))
			}
		}
	}
	return sb.String()
}

// Views holds the two sides of a before/after display.
type Views struct {
	Before string // kept + removed tokens, removals marked
	After  string // kept + added tokens, additions marked
}

// RenderViews renders the before and after views of an alignment. Stripping
// the markup from Before gives the old text; from After, the new text.
func RenderViews(diffs []Diff, opts FormatOptions) Views {
	opts = opts.withDefaults()

	var before, after strings.Builder
	for _, d := range opts.prepare(diffs) {
		switch d.Type {
		case Kept:
			before.WriteString(opts.plain(d.Token))
			after.WriteString(opts.plain(d.Token))
		case Removed:
			before.WriteString(opts.mark(d.Token, Removed))
		case Added:
			after.WriteString(opts.mark(d.Token, Added))
		}
	}
	return Views{Before: before.String(), After: after.String()}
}
