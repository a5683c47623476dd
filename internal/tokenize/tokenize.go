// Package tokenize normalizes text into index and query tokens: lowercase,
// alnum-run extraction, mode-specific stop-word filtering, Porter
// stemming, and single-character token removal.
package tokenize

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Mode selects whether stop words are dropped (query mode) or retained
// (index mode).
type Mode int

const (
	// Index mode retains stop words; Porter stems absorb most low-value
	// forms and retention is deliberate.
	Index Mode = iota
	// Query drops stop words before stemming.
	Query
)

var alnumRun = regexp.MustCompile(`[a-zA-Z0-9]+`)

// Tokenize runs the full pipeline over s and returns tokens in occurrence
// order, which callers rely on for position recording in PostingBuilder.
func Tokenize(s string, mode Mode) []string {
	matches := alnumRun.FindAllString(strings.ToLower(s), -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if mode == Query && IsStopWord(m) {
			continue
		}
		stemmed := stem(m)
		if len(stemmed) <= 1 {
			continue
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}

// stem applies Porter2/Snowball stemming to a single lowercase alnum token.
// Pure-numeric tokens are returned unchanged since the stemmer operates on
// English morphology and numbers have none.
func stem(tok string) string {
	if isNumeric(tok) {
		return tok
	}
	return english.Stem(tok, false)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
