// Package wypal cleans AI-generated prose and shows what changed.
//
// Cleaning is a fixed, ordered table of pattern rules: markdown stripping,
// typography normalization, formulaic-phrase removal and whitespace cleanup.
// Each rule is switched on or off by a RuleConfig and reports how many things
// it changed:
//
//	res := wypal.Clean("## Title\n\n**Bold** claim", wypal.DefaultConfig())
//	// res.Text    == "Title\n\nBold claim"
//	// res.Changes == ["Removed 1 bold segments", "Removed 1 markdown headers"]
//
// The before/after comparison is a token-level diff. Tokens are words and
// whitespace runs, so replaying an alignment reproduces either side exactly:
//
//	diffs := wypal.DiffStrings(source, res.Text, wypal.DiffOptions{})
//	wypal.Before(diffs) == source
//	wypal.After(diffs) == res.Text
//
// History keeps a linear undo/redo stack of cleaned outputs.
package wypal

import (
	"strings"

	"github.com/dacharyc/diffx"
)

// Operation represents a diff operation type.
type Operation int

const (
	// Kept indicates the token appears on both sides.
	Kept Operation = iota
	// Added indicates the token only appears in the new text.
	Added
	// Removed indicates the token only appears in the old text.
	Removed
)

// String returns a human-readable representation of the operation.
func (o Operation) String() string {
	switch o {
	case Kept:
		return "kept"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Diff represents a single diff operation on a token.
type Diff struct {
	Type  Operation
	Token string
}

// Algorithm selects how two token sequences are aligned.
type Algorithm string

const (
	// AlgorithmLCS is the longest-common-subsequence table. It is the default
	// and the only algorithm with a fixed tie-break policy.
	AlgorithmLCS Algorithm = "lcs"

	// AlgorithmHistogram uses diffx's histogram diff. It skips the O(n*m)
	// table and avoids anchoring on very common words, at the cost of not
	// always producing a minimal alignment.
	AlgorithmHistogram Algorithm = "histogram"
)

// ParseAlgorithm maps a name to an Algorithm. Unknown names report false.
func ParseAlgorithm(name string) (Algorithm, bool) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", AlgorithmLCS:
		return AlgorithmLCS, true
	case AlgorithmHistogram:
		return AlgorithmHistogram, true
	}
	return AlgorithmLCS, false
}

// DiffOptions configures the diff behavior.
type DiffOptions struct {
	// Algorithm selects the aligner. The zero value means AlgorithmLCS.
	Algorithm Algorithm
}

// DiffStrings tokenizes both strings and computes their diff.
func DiffStrings(text1, text2 string, opts DiffOptions) []Diff {
	tokens1 := Tokenize(text1)
	tokens2 := Tokenize(text2)

	if opts.Algorithm == AlgorithmHistogram {
		return DiffTokensHistogram(tokens1, tokens2)
	}
	return DiffTokens(tokens1, tokens2)
}

// DiffTokensHistogram aligns two token slices with diffx's histogram diff.
func DiffTokensHistogram(tokens1, tokens2 []string) []Diff {
	ops := diffx.DiffHistogram(tokens1, tokens2)
	return diffxOpsToDiffs(ops, tokens1, tokens2)
}

// diffxOpsToDiffs converts diffx DiffOps to wypal Diffs.
func diffxOpsToDiffs(ops []diffx.DiffOp, tokens1, tokens2 []string) []Diff {
	var result []Diff

	for _, op := range ops {
		switch op.Type {
		case diffx.Equal:
			for i := op.AStart; i < op.AEnd; i++ {
				result = append(result, Diff{Type: Kept, Token: tokens1[i]})
			}
		case diffx.Delete:
			for i := op.AStart; i < op.AEnd; i++ {
				result = append(result, Diff{Type: Removed, Token: tokens1[i]})
			}
		case diffx.Insert:
			for i := op.BStart; i < op.BEnd; i++ {
				result = append(result, Diff{Type: Added, Token: tokens2[i]})
			}
		}
	}

	return result
}

// Before replays the kept and removed tokens, reconstructing the old text.
func Before(diffs []Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		if d.Type != Added {
			sb.WriteString(d.Token)
		}
	}
	return sb.String()
}

// After replays the kept and added tokens, reconstructing the new text.
func After(diffs []Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		if d.Type != Removed {
			sb.WriteString(d.Token)
		}
	}
	return sb.String()
}

// HasChanges returns true if any diff is not Kept.
func HasChanges(diffs []Diff) bool {
	for _, d := range diffs {
		if d.Type != Kept {
			return true
		}
	}
	return false
}
