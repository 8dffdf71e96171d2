package wypal

import (
	"unicode"
	"unicode/utf8"
)

// TokenPos represents a token's position in the original text.
type TokenPos struct {
	Start int // byte offset of token start
	End   int // byte offset of token end (exclusive)
}

// TokenizeWithPositions splits text into tokens and tracks their positions.
// Tokens alternate between whitespace runs and non-whitespace runs, so the
// positions tile the input without gaps.
func TokenizeWithPositions(text string) ([]string, []TokenPos) {
	var tokens []string
	var positions []TokenPos

	start := 0
	inSpace := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if i > start && space != inSpace {
			tokens = append(tokens, text[start:i])
			positions = append(positions, TokenPos{Start: start, End: i})
			start = i
		}
		inSpace = space
	}

	// Flush the final run; zero-length artifacts are never emitted.
	if start < len(text) {
		tokens = append(tokens, text[start:])
		positions = append(positions, TokenPos{Start: start, End: len(text)})
	}
	return tokens, positions
}

// Tokenize splits text into words and whitespace runs. Whitespace is kept as
// its own tokens, so joining the result reproduces the input exactly.
func Tokenize(text string) []string {
	tokens, _ := TokenizeWithPositions(text)
	return tokens
}

// IsWhitespaceToken reports whether token is a whitespace run.
func IsWhitespaceToken(token string) bool {
	if token == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsSpace(r)
}
