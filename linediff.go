package wypal

import "strings"

// LinePairing represents a pairing between a removed line and an added line.
type LinePairing struct {
	RemovedIndex int // index in removed slice
	AddedIndex   int // index in added slice
}

// FindPositionalPairings pairs removed and added lines by position.
// Removed[0] pairs with Added[0], Removed[1] with Added[1], etc.
// Returns pairings only up to min(len(removed), len(added)).
func FindPositionalPairings(removed, added []string) []LinePairing {
	n := min(len(removed), len(added))
	pairings := make([]LinePairing, n)
	for i := 0; i < n; i++ {
		pairings[i] = LinePairing{RemovedIndex: i, AddedIndex: i}
	}
	return pairings
}

// LineDiffResult holds diff results for a single line in line mode.
type LineDiffResult struct {
	OldLineNum int    // line number in old text, 0 if the line is new
	NewLineNum int    // line number in new text, 0 if the line was dropped
	HasChanges bool   // true if this line contains changes
	Output     string // formatted output for this line
}

// LineDiffOutput holds the results of a line mode diff.
type LineDiffOutput struct {
	Lines      []LineDiffResult // individual line results
	HasChanges bool             // true if there are any differences
}

// DiffLineByLine aligns the two texts line by line, then diffs each changed
// pair of lines at token level. Line numbers follow both texts:
//   - kept lines advance both counters
//   - removed lines advance only the old counter
//   - added lines advance only the new counter
//
// Within a change block removed and added lines are paired by position; a
// paired line is rendered as one inline token diff.
func DiffLineByLine(text1, text2 string, fmtOpts FormatOptions) LineDiffOutput {
	lines1 := strings.Split(text1, "\n")
	lines2 := strings.Split(text2, "\n")
	lineDiffs := DiffTokens(lines1, lines2)

	var out LineDiffOutput
	oldNum, newNum := 0, 0

	i := 0
	for i < len(lineDiffs) {
		if lineDiffs[i].Type == Kept {
			oldNum++
			newNum++
			out.Lines = append(out.Lines, LineDiffResult{
				OldLineNum: oldNum,
				NewLineNum: newNum,
				Output:     fmtOpts.plain(lineDiffs[i].Token),
			})
			i++
			continue
		}

		// Collect the change block.
		var removed, added []string
		for i < len(lineDiffs) && lineDiffs[i].Type != Kept {
			if lineDiffs[i].Type == Removed {
				removed = append(removed, lineDiffs[i].Token)
			} else {
				added = append(added, lineDiffs[i].Token)
			}
			i++
		}
		out.HasChanges = true

		pairings := FindPositionalPairings(removed, added)
		for _, p := range pairings {
			oldNum++
			newNum++
			diffs := DiffTokens(Tokenize(removed[p.RemovedIndex]), Tokenize(added[p.AddedIndex]))
			out.Lines = append(out.Lines, LineDiffResult{
				OldLineNum: oldNum,
				NewLineNum: newNum,
				HasChanges: true,
				Output:     FormatDiff(diffs, fmtOpts),
			})
		}
		for _, line := range removed[len(pairings):] {
			oldNum++
			out.Lines = append(out.Lines, LineDiffResult{
				OldLineNum: oldNum,
				HasChanges: true,
				Output:     wholeLine(line, Removed, fmtOpts),
			})
		}
		for _, line := range added[len(pairings):] {
			newNum++
			out.Lines = append(out.Lines, LineDiffResult{
				NewLineNum: newNum,
				HasChanges: true,
				Output:     wholeLine(line, Added, fmtOpts),
			})
		}
	}

	return out
}

// wholeLine marks an entire unpaired line. Empty lines stay empty so a
// dropped blank line does not show as a bare pair of markers.
func wholeLine(line string, op Operation, fmtOpts FormatOptions) string {
	if line == "" {
		return ""
	}
	return fmtOpts.withDefaults().mark(line, op)
}

// FilterWithContext returns only the lines that are changes or within
// contextLines of a change.
func FilterWithContext(lines []LineDiffResult, contextLines int) []LineDiffResult {
	if contextLines <= 0 {
		return lines
	}

	toPrint := make([]bool, len(lines))
	for i, r := range lines {
		if r.HasChanges {
			start := max(0, i-contextLines)
			end := min(len(lines), i+contextLines+1)
			for j := start; j < end; j++ {
				toPrint[j] = true
			}
		}
	}

	var result []LineDiffResult
	for i, r := range lines {
		if toPrint[i] {
			result = append(result, r)
		}
	}
	return result
}
