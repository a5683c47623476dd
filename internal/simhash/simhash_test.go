package simhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdenticalTokenBagsProduceIdenticalFingerprints(t *testing.T) {
	a := Compute([]string{"the", "quick", "brown", "fox"})
	b := Compute([]string{"the", "quick", "brown", "fox"})
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, 1.0, Similarity(a, b))
}

func TestDifferentDocumentsAreLessSimilar(t *testing.T) {
	a := Compute([]string{"the", "quick", "brown", "fox"})
	b := Compute([]string{"completely", "unrelated", "content", "here", "now"})
	assert.Less(t, Similarity(a, b), 1.0)
}

func TestStringParseRoundTrip(t *testing.T) {
	fp := Compute([]string{"alpha", "beta", "gamma"})
	s := fp.String()
	assert.Len(t, s, Bits)
	parsed := Parse(s)
	assert.Equal(t, fp.String(), parsed.String())
}

func TestIsNearDuplicate(t *testing.T) {
	a := Compute([]string{"the", "quick", "brown", "fox"})
	dup := Compute([]string{"the", "quick", "brown", "fox"})
	other := Compute([]string{"totally", "different", "words", "set", "here", "indeed"})
	assert.True(t, IsNearDuplicate(dup, []Fingerprint{a}, DefaultThreshold))
	assert.False(t, IsNearDuplicate(other, []Fingerprint{a}, DefaultThreshold))
}
