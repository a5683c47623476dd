package index

import (
	"math"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
)

// Score computes TF-IDF for every posting in shard: idf = log10(N/df) per
// term, tf = frequency/token_count (0 if token_count is 0), weighted_tf =
// tf*(1+importance), tf_idf = weighted_tf*idf. Mutates only the TFIDF
// field, in place.
func Score(shard docmodel.Index, tokenCounts map[int]int, totalDocs int) {
	for _, postings := range shard {
		df := len(postings)
		if df == 0 {
			continue
		}
		idf := math.Log10(float64(totalDocs) / float64(df))
		for i := range postings {
			p := &postings[i]
			tc := tokenCounts[p.DocID]
			var tf float64
			if tc > 0 {
				tf = float64(p.Frequency) / float64(tc)
			}
			weightedTF := tf * (1 + p.Importance)
			p.TFIDF = weightedTF * idf
		}
	}
}
