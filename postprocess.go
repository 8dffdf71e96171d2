package wypal

import "strings"

// AggregateDiffs combines adjacent diffs of the same type into single
// tokens. Whitespace is tokenized, so joining is plain concatenation and
// the aggregated diffs replay to the same texts.
func AggregateDiffs(diffs []Diff) []Diff {
	if len(diffs) == 0 {
		return diffs
	}

	var result []Diff
	var currentType Operation = -1
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 && currentType >= 0 {
			result = append(result, Diff{
				Type:  currentType,
				Token: current.String(),
			})
			current.Reset()
		}
	}

	for _, d := range diffs {
		if d.Type != currentType {
			flush()
			currentType = d.Type
		}
		current.WriteString(d.Token)
	}
	flush()

	return result
}

// AbsorbWhitespace turns a kept whitespace token sitting between two
// changes into a removed+added pair, so a phrase replaced word by word
// shows as one removed run and one added run instead of alternating
// fragments. Replaying the result still gives both texts.
func AbsorbWhitespace(diffs []Diff) []Diff {
	if len(diffs) < 3 {
		return diffs
	}

	result := make([]Diff, 0, len(diffs)+2)
	for i, d := range diffs {
		if d.Type == Kept && IsWhitespaceToken(d.Token) && i > 0 && i < len(diffs)-1 &&
			diffs[i-1].Type != Kept && diffs[i+1].Type != Kept {
			result = append(result,
				Diff{Type: Removed, Token: d.Token},
				Diff{Type: Added, Token: d.Token},
			)
			continue
		}
		result = append(result, d)
	}
	return GroupChanges(result)
}

// GroupChanges reorders every change run so its removals come before its
// additions. Runs are maximal sequences of non-kept diffs.
func GroupChanges(diffs []Diff) []Diff {
	if len(diffs) == 0 {
		return diffs
	}

	result := make([]Diff, 0, len(diffs))
	i := 0
	for i < len(diffs) {
		if diffs[i].Type == Kept {
			result = append(result, diffs[i])
			i++
			continue
		}

		start := i
		for i < len(diffs) && diffs[i].Type != Kept {
			i++
		}
		run := diffs[start:i]
		for _, d := range run {
			if d.Type == Removed {
				result = append(result, d)
			}
		}
		for _, d := range run {
			if d.Type == Added {
				result = append(result, d)
			}
		}
	}

	return result
}
