// Package index builds and serves the on-disk inverted index: posting
// construction, the memory-bounded spiller, the alphabet-range
// partitioner, TF-IDF scoring, and the final binary serializer with its
// seek map.
package index

import (
	"sort"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
	"github.com/SoulShadow8326/soulsearch/internal/tokenize"
)

// perTermAccum is the per-document accumulator: term -> (frequency,
// importance, positions).
type perTermAccum struct {
	frequency  int
	importance float64
	positions  []int
}

// Added is one (term, posting) pair newly appended to an index by a single
// BuildPostings call, letting callers account for the document's
// contribution to the index's resident size without rescanning it.
type Added struct {
	Term    string
	Posting docmodel.Posting
}

// BuildPostings tokenizes body text and every weighted-text string, tracks
// continuation-offset positions across them, and appends one Posting per
// term to idx for document docID. It returns the document's token_count
// (the length of the body token stream) and the postings it just added.
func BuildPostings(idx docmodel.Index, docID int, body string, weighted map[string]float64) (tokenCount int, added []Added) {
	bodyTokens := tokenize.Tokenize(body, tokenize.Index)
	acc := make(map[string]*perTermAccum, len(bodyTokens))

	for pos, tok := range bodyTokens {
		a := acc[tok]
		if a == nil {
			a = &perTermAccum{}
			acc[tok] = a
		}
		a.frequency++
		a.positions = append(a.positions, pos)
	}

	offset := len(bodyTokens)
	// Deterministic order over weighted strings keeps position assignment
	// reproducible even though map iteration order is not.
	keys := make([]string, 0, len(weighted))
	for s := range weighted {
		keys = append(keys, s)
	}
	sort.Strings(keys)

	for _, s := range keys {
		w := weighted[s]
		wTokens := tokenize.Tokenize(s, tokenize.Index)
		for i, tok := range wTokens {
			a := acc[tok]
			if a == nil {
				a = &perTermAccum{}
				acc[tok] = a
			}
			a.frequency++
			a.importance += w
			a.positions = append(a.positions, offset+i)
		}
		offset += len(wTokens)
	}

	added = make([]Added, 0, len(acc))
	for term, a := range acc {
		sort.Ints(a.positions)
		p := docmodel.Posting{
			DocID:      docID,
			Frequency:  a.frequency,
			Importance: a.importance,
			Positions:  a.positions,
		}
		idx.Add(term, p)
		added = append(added, Added{Term: term, Posting: p})
	}

	return len(bodyTokens), added
}
