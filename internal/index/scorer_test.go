package index

import (
	"math"
	"testing"

	"github.com/SoulShadow8326/soulsearch/internal/docmodel"
	"github.com/stretchr/testify/assert"
)

func TestScoreComputesExpectedTFIDF(t *testing.T) {
	shard := docmodel.Index{
		"rust": {
			{DocID: 0, Frequency: 2, Importance: 1.0, Positions: []int{0, 1}},
			{DocID: 1, Frequency: 1, Importance: 0.0, Positions: []int{3}},
		},
	}
	tokenCounts := map[int]int{0: 4, 1: 10}

	Score(shard, tokenCounts, 2)

	idf := math.Log10(2.0 / 2.0) // df=2, N=2 -> idf=0
	assert.InDelta(t, idf, 0.0, 1e-9)
	// idf is 0 here since both docs contain "rust"; tf_idf must be 0.
	assert.InDelta(t, 0.0, shard["rust"][0].TFIDF, 1e-9)
	assert.InDelta(t, 0.0, shard["rust"][1].TFIDF, 1e-9)
}

func TestScoreWithNonUniformDocumentFrequency(t *testing.T) {
	shard := docmodel.Index{
		"rare": {
			{DocID: 0, Frequency: 3, Importance: 0.0, Positions: []int{0, 1, 2}},
		},
	}
	tokenCounts := map[int]int{0: 10}

	Score(shard, tokenCounts, 100)

	idf := math.Log10(100.0 / 1.0)
	tf := 3.0 / 10.0
	want := tf * (1 + 0.0) * idf
	assert.InDelta(t, want, shard["rare"][0].TFIDF, 1e-9)
}

func TestScoreZeroTokenCountYieldsZeroTF(t *testing.T) {
	shard := docmodel.Index{
		"x": {{DocID: 0, Frequency: 1, Positions: []int{0}}},
	}
	Score(shard, map[int]int{0: 0}, 5)
	assert.Equal(t, 0.0, shard["x"][0].TFIDF)
}
