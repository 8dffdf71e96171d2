package wypal

import (
	"strings"
	"testing"
)

// simpleDiffs is "hello world" -> "hello universe".
var simpleDiffs = []Diff{
	{Kept, "hello"},
	{Kept, " "},
	{Removed, "world"},
	{Added, "universe"},
}

func TestFormatDiff(t *testing.T) {
	tests := []struct {
		name     string
		diffs    []Diff
		opts     FormatOptions
		expected string
	}{
		{
			name:     "simple change",
			diffs:    simpleDiffs,
			expected: "hello [-world-]{+universe+}",
		},
		{
			name:     "empty",
			diffs:    nil,
			expected: "",
		},
		{
			name: "adjacent tokens share one marker",
			diffs: []Diff{
				{Kept, "a"},
				{Kept, " "},
				{Removed, "b"},
				{Removed, " "},
				{Removed, "c"},
				{Added, "x"},
			},
			expected: "a [-b c-]{+x+}",
		},
		{
			name:     "no removed",
			diffs:    simpleDiffs,
			opts:     FormatOptions{NoRemoved: true},
			expected: "hello {+universe+}",
		},
		{
			name:     "no added",
			diffs:    simpleDiffs,
			opts:     FormatOptions{NoAdded: true},
			expected: "hello [-world-]",
		},
		{
			name:     "no common",
			diffs:    simpleDiffs,
			opts:     FormatOptions{NoCommon: true},
			expected: "[-world-]{+universe+}",
		},
		{
			name:  "custom markers",
			diffs: simpleDiffs,
			opts: FormatOptions{
				StartRemoved: "<del>",
				StopRemoved:  "</del>",
				StartAdded:   "<ins>",
				StopAdded:    "</ins>",
			},
			expected: "hello <del>world</del><ins>universe</ins>",
		},
		{
			name:     "color",
			diffs:    simpleDiffs,
			opts:     FormatOptions{UseColor: true, RemovedColor: ANSIRemovedColor, AddedColor: ANSIAddedColor},
			expected: "hello " + ANSIRemovedColor + "world" + ANSIReset + ANSIAddedColor + "universe" + ANSIReset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatDiff(tt.diffs, tt.opts)
			if result != tt.expected {
				t.Errorf("FormatDiff() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestFormatDiffHTML(t *testing.T) {
	diffs := []Diff{
		{Kept, "a<b"},
		{Kept, " "},
		{Removed, "x&y"},
		{Added, `"z"`},
	}
	opts := DefaultFormatOptions()
	opts.HTML = true
	opts.UseColor = true

	want := `a&lt;b <span class="diff-removed">x&amp;y</span><span class="diff-added">&#34;z&#34;</span>`
	if got := FormatDiff(diffs, opts); got != want {
		t.Errorf("FormatDiff() = %q, want %q", got, want)
	}
}

func TestFormatDiffRepeatMarkers(t *testing.T) {
	diffs := []Diff{
		{Removed, "one"},
		{Removed, "\n"},
		{Removed, "two"},
		{Added, "x"},
	}

	tests := []struct {
		name     string
		repeat   bool
		expected string
	}{
		{"off", false, "[-one\ntwo-]{+x+}"},
		{"on", true, "[-one-]\n[-two-]{+x+}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDiff(diffs, FormatOptions{RepeatMarkers: tt.repeat})
			if got != tt.expected {
				t.Errorf("FormatDiff() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatDiffCompact(t *testing.T) {
	diffs := []Diff{
		{Kept, "a"},
		{Kept, " "},
		{Removed, "b"},
		{Added, "x"},
		{Kept, " "},
		{Removed, "c"},
		{Added, "y"},
		{Kept, " "},
		{Kept, "d"},
	}

	if got, want := FormatDiff(diffs, FormatOptions{}), "a [-b-]{+x+} [-c-]{+y+} d"; got != want {
		t.Errorf("FormatDiff() = %q, want %q", got, want)
	}
	if got, want := FormatDiff(diffs, FormatOptions{Compact: true}), "a [-b c-]{+x y+} d"; got != want {
		t.Errorf("FormatDiff(compact) = %q, want %q", got, want)
	}
}

func TestRenderViews(t *testing.T) {
	diffs := []Diff{
		{Kept, "a"},
		{Kept, " "},
		{Removed, "old"},
		{Added, "new"},
		{Kept, "!"},
	}

	got := RenderViews(diffs, FormatOptions{})
	want := Views{Before: "a [-old-]!", After: "a {+new+}!"}
	if got != want {
		t.Errorf("RenderViews() = %+v, want %+v", got, want)
	}

	opts := FormatOptions{HTML: true}
	got = RenderViews(diffs, opts)
	want = Views{
		Before: `a <span class="diff-removed">old</span>!`,
		After:  `a <span class="diff-added">new</span>!`,
	}
	if got != want {
		t.Errorf("RenderViews(html) = %+v, want %+v", got, want)
	}
}

func TestRenderViewsStripToTexts(t *testing.T) {
	strip := strings.NewReplacer("[-", "", "-]", "", "{+", "", "+}", "")
	for _, p := range diffPairs {
		v := RenderViews(DiffStrings(p[0], p[1], DiffOptions{}), FormatOptions{})
		if got := strip.Replace(v.Before); got != p[0] {
			t.Errorf("stripped Before for %q = %q", p[0], got)
		}
		if got := strip.Replace(v.After); got != p[1] {
			t.Errorf("stripped After for %q = %q", p[1], got)
		}
	}
}

func TestColorNames(t *testing.T) {
	names := ColorNames()

	if len(names) != len(ForegroundColors) {
		t.Errorf("ColorNames() has %d names, want %d", len(names), len(ForegroundColors))
	}

	for _, name := range names {
		if _, ok := ForegroundColors[name]; !ok {
			t.Errorf("ColorNames() includes %q with no foreground code", name)
		}
		if _, ok := BackgroundColors[name]; !ok {
			t.Errorf("ColorNames() includes %q with no background code", name)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    string
		wantErr bool
	}{
		{
			name: "empty string",
			spec: "",
			want: "",
		},
		{
			name: "valid foreground color",
			spec: "red",
			want: "\033[31m",
		},
		{
			name: "valid foreground with background",
			spec: "red:white",
			want: "\033[31m\033[47m",
		},
		{
			name: "background only",
			spec: ":blue",
			want: "\033[44m",
		},
		{
			name:    "invalid color",
			spec:    "notacolor",
			wantErr: true,
		},
		{
			name:    "invalid background color",
			spec:    "red:notacolor",
			wantErr: true,
		},
		{
			name: "case insensitive",
			spec: "RED",
			want: "\033[31m",
		},
		{
			name: "with whitespace",
			spec: "  red  ",
			want: "\033[31m",
		},
		{
			name: "bright color",
			spec: "brightred",
			want: "\033[91m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseColor(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseColor(%q) expected error, got nil", tt.spec)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseColor(%q) unexpected error: %v", tt.spec, err)
			}
			if result != tt.want {
				t.Errorf("ParseColor(%q) = %q, want %q", tt.spec, result, tt.want)
			}
		})
	}
}

func TestParseColorSpec(t *testing.T) {
	tests := []struct {
		name        string
		spec        string
		wantRemoved string
		wantAdded   string
		wantErr     bool
	}{
		{
			name:        "single color for removed",
			spec:        "red",
			wantRemoved: "\033[31m",
			wantAdded:   ANSIAddedColor,
		},
		{
			name:        "both colors specified",
			spec:        "red,green",
			wantRemoved: "\033[31m",
			wantAdded:   "\033[32m",
		},
		{
			name:        "colors with backgrounds",
			spec:        "red:white,green:black",
			wantRemoved: "\033[31m\033[47m",
			wantAdded:   "\033[32m\033[40m",
		},
		{
			name:    "invalid removed color",
			spec:    "notacolor,green",
			wantErr: true,
		},
		{
			name:    "invalid added color",
			spec:    "red,notacolor",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removedColor, addedColor, err := ParseColorSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseColorSpec(%q) expected error, got nil", tt.spec)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseColorSpec(%q) unexpected error: %v", tt.spec, err)
			}
			if removedColor != tt.wantRemoved || addedColor != tt.wantAdded {
				t.Errorf("ParseColorSpec(%q) = %q, %q; want %q, %q",
					tt.spec, removedColor, addedColor, tt.wantRemoved, tt.wantAdded)
			}
		})
	}
}

func TestDefaultFormatOptions(t *testing.T) {
	opts := DefaultFormatOptions()
	if opts.StartRemoved != "[-" || opts.StopRemoved != "-]" ||
		opts.StartAdded != "{+" || opts.StopAdded != "+}" {
		t.Errorf("DefaultFormatOptions() markers = %+v", opts)
	}
	if opts.UseColor || opts.HTML {
		t.Error("DefaultFormatOptions() enables color or HTML")
	}
	if opts.ColorReset != ANSIReset {
		t.Errorf("ColorReset = %q, want %q", opts.ColorReset, ANSIReset)
	}
}
