package wypal

import (
	"math"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

var (
	reWord    = regexp.MustCompile(`\b\w+\b`)
	reClutter = regexp.MustCompile("[#*_`>\\[\\]()]")
	reAIStyle = regexp.MustCompile(`(?i)\b(?:Furthermore|Moreover|Additionally|It['’]s worth noting|Here['’]s a|In conclusion)\b`)
)

// Statistics summarizes one cleaning run for display. None of the values
// feed back into the pipeline.
type Statistics struct {
	CharactersRemoved int // BeforeLength - AfterLength, never negative
	WordsProcessed    int // the larger of the source and output word counts
	ReadabilityGain   int // 0-100
	AIConfidence      int // 0-100
}

// ComputeStatistics derives display statistics from a source and its result.
func ComputeStatistics(source string, res Result) Statistics {
	return Statistics{
		CharactersRemoved: max(0, res.BeforeLength-res.AfterLength),
		WordsProcessed:    max(WordCount(source), WordCount(res.Text)),
		ReadabilityGain:   EstimateReadabilityGain(source, res.Text),
		AIConfidence:      EstimateAIConfidence(source),
	}
}

// WordCount counts runs of ASCII word characters.
func WordCount(text string) int {
	return len(reWord.FindAllStringIndex(text, -1))
}

// EstimateReadabilityGain scores how much markdown clutter cleaning removed,
// relative to the source length. It is a heuristic, not a readability
// metric.
func EstimateReadabilityGain(before, after string) int {
	removed := max(0, countClutter(before)-countClutter(after))
	length := max(1, len([]rune(before)))
	return clampScore(float64(removed) / float64(length) * 12000)
}

// EstimateAIConfidence scores how densely text uses stock AI phrasing.
// Compatibility forms (full-width letters, ligatures) are folded first so
// they cannot hide a phrase.
func EstimateAIConfidence(text string) int {
	folded := norm.NFKC.String(text)
	matches := len(reAIStyle.FindAllStringIndex(folded, -1))
	words := max(1, WordCount(folded))
	return clampScore(float64(matches) / float64(words) * 6000)
}

func countClutter(text string) int {
	return len(reClutter.FindAllStringIndex(text, -1))
}

func clampScore(v float64) int {
	return int(math.Round(math.Min(100, math.Max(0, v))))
}

// DiffStatistics holds token counts for an alignment. Whitespace tokens are
// not counted.
type DiffStatistics struct {
	OldWords     int // words in the old text
	NewWords     int // words in the new text
	RemovedWords int // words only in the old text
	AddedWords   int // words only in the new text
	CommonWords  int // words in both texts
}

// ComputeDiffStatistics calculates statistics for a diff.
func ComputeDiffStatistics(diffs []Diff) DiffStatistics {
	var st DiffStatistics
	for _, d := range diffs {
		if IsWhitespaceToken(d.Token) {
			continue
		}
		switch d.Type {
		case Kept:
			st.CommonWords++
			st.OldWords++
			st.NewWords++
		case Removed:
			st.RemovedWords++
			st.OldWords++
		case Added:
			st.AddedWords++
			st.NewWords++
		}
	}
	return st
}
