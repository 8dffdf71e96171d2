package wypal

import (
	"reflect"
	"testing"
)

func TestFindPositionalPairings(t *testing.T) {
	tests := []struct {
		name     string
		removed  []string
		added    []string
		expected int // expected number of pairings
	}{
		{
			name:     "empty inputs",
			removed:  []string{},
			added:    []string{},
			expected: 0,
		},
		{
			name:     "equal length",
			removed:  []string{"a", "b", "c"},
			added:    []string{"x", "y", "z"},
			expected: 3,
		},
		{
			name:     "more removed than added",
			removed:  []string{"a", "b", "c"},
			added:    []string{"x"},
			expected: 1,
		},
		{
			name:     "more added than removed",
			removed:  []string{"a"},
			added:    []string{"x", "y", "z"},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairings := FindPositionalPairings(tt.removed, tt.added)
			if len(pairings) != tt.expected {
				t.Errorf("FindPositionalPairings() returned %d pairings, want %d",
					len(pairings), tt.expected)
			}

			for i, p := range pairings {
				if p.RemovedIndex != i || p.AddedIndex != i {
					t.Errorf("Pairing %d: got RemovedIndex=%d, AddedIndex=%d, want both=%d",
						i, p.RemovedIndex, p.AddedIndex, i)
				}
			}
		})
	}
}

func TestDiffLineByLine(t *testing.T) {
	tests := []struct {
		name        string
		text1       string
		text2       string
		wantChanges bool
		want        []LineDiffResult
	}{
		{
			name:  "identical",
			text1: "a\nb",
			text2: "a\nb",
			want: []LineDiffResult{
				{OldLineNum: 1, NewLineNum: 1, Output: "a"},
				{OldLineNum: 2, NewLineNum: 2, Output: "b"},
			},
		},
		{
			name:        "changed line",
			text1:       "a\nb\nc",
			text2:       "a\nB\nc",
			wantChanges: true,
			want: []LineDiffResult{
				{OldLineNum: 1, NewLineNum: 1, Output: "a"},
				{OldLineNum: 2, NewLineNum: 2, HasChanges: true, Output: "[-b-]{+B+}"},
				{OldLineNum: 3, NewLineNum: 3, Output: "c"},
			},
		},
		{
			name:        "word change inside a line",
			text1:       "the quick fox",
			text2:       "the slow fox",
			wantChanges: true,
			want: []LineDiffResult{
				{OldLineNum: 1, NewLineNum: 1, HasChanges: true, Output: "the [-quick-]{+slow+} fox"},
			},
		},
		{
			name:        "dropped line",
			text1:       "a\nb\nc",
			text2:       "a\nc",
			wantChanges: true,
			want: []LineDiffResult{
				{OldLineNum: 1, NewLineNum: 1, Output: "a"},
				{OldLineNum: 2, HasChanges: true, Output: "[-b-]"},
				{OldLineNum: 3, NewLineNum: 2, Output: "c"},
			},
		},
		{
			name:        "new line",
			text1:       "a",
			text2:       "a\nx",
			wantChanges: true,
			want: []LineDiffResult{
				{OldLineNum: 1, NewLineNum: 1, Output: "a"},
				{NewLineNum: 2, HasChanges: true, Output: "{+x+}"},
			},
		},
		{
			name:        "dropped blank line stays empty",
			text1:       "a\n\nb",
			text2:       "a\nb",
			wantChanges: true,
			want: []LineDiffResult{
				{OldLineNum: 1, NewLineNum: 1, Output: "a"},
				{OldLineNum: 2, HasChanges: true, Output: ""},
				{OldLineNum: 3, NewLineNum: 2, Output: "b"},
			},
		},
		{
			name:        "unbalanced block pairs by position",
			text1:       "a\nb\nc",
			text2:       "x\ny",
			wantChanges: true,
			want: []LineDiffResult{
				{OldLineNum: 1, NewLineNum: 1, HasChanges: true, Output: "[-a-]{+x+}"},
				{OldLineNum: 2, NewLineNum: 2, HasChanges: true, Output: "[-b-]{+y+}"},
				{OldLineNum: 3, HasChanges: true, Output: "[-c-]"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DiffLineByLine(tt.text1, tt.text2, FormatOptions{})
			if out.HasChanges != tt.wantChanges {
				t.Errorf("HasChanges = %v, want %v", out.HasChanges, tt.wantChanges)
			}
			if !reflect.DeepEqual(out.Lines, tt.want) {
				t.Errorf("Lines = %+v, want %+v", out.Lines, tt.want)
			}
		})
	}
}

func TestDiffLineByLineHTML(t *testing.T) {
	out := DiffLineByLine("<a>\nx", "<a>\ny", FormatOptions{HTML: true})
	want := []LineDiffResult{
		{OldLineNum: 1, NewLineNum: 1, Output: "&lt;a&gt;"},
		{OldLineNum: 2, NewLineNum: 2, HasChanges: true,
			Output: `<span class="diff-removed">x</span><span class="diff-added">y</span>`},
	}
	if !reflect.DeepEqual(out.Lines, want) {
		t.Errorf("Lines = %+v, want %+v", out.Lines, want)
	}
}

func TestFilterWithContext(t *testing.T) {
	lines := make([]LineDiffResult, 10)
	for i := range lines {
		lines[i] = LineDiffResult{OldLineNum: i + 1, NewLineNum: i + 1}
	}
	lines[5].HasChanges = true

	tests := []struct {
		name    string
		context int
		want    []int // old line numbers kept
	}{
		{"no context keeps everything", 0, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"one line", 1, []int{5, 6, 7}},
		{"clipped at the end", 5, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"two lines", 2, []int{4, 5, 6, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, r := range FilterWithContext(lines, tt.context) {
				got = append(got, r.OldLineNum)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterWithContext(%d) = %v, want %v", tt.context, got, tt.want)
			}
		})
	}
}

func TestFilterWithContextNoChanges(t *testing.T) {
	lines := []LineDiffResult{{OldLineNum: 1, NewLineNum: 1}}
	if got := FilterWithContext(lines, 2); len(got) != 0 {
		t.Errorf("FilterWithContext() = %v, want nothing", got)
	}
}
