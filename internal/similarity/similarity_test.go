package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioIdenticalStrings(t *testing.T) {
	assert.Equal(t, 100.0, Ratio("Rent", "Rent"))
	assert.Equal(t, 100.0, Ratio("rent", "RENT"))
	assert.Equal(t, 100.0, Ratio("", ""))
}

func TestRatioDisjointStrings(t *testing.T) {
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
}

func TestRatioSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Office Rent", "Rent"},
		{"CAM Charges", "Common Area Maintenance"},
		{"Electricity", "Utilities - Electric"},
	}
	for _, pair := range pairs {
		assert.InDelta(t, Ratio(pair[0], pair[1]), Ratio(pair[1], pair[0]), 0.0001,
			"Ratio(%q,%q) must equal Ratio(%q,%q)", pair[0], pair[1], pair[1], pair[0])
	}
}

func TestRatioPartialOverlap(t *testing.T) {
	// "Rent" is fully contained in "Office Rent": 2*4/(4+11).
	assert.InDelta(t, 200.0*4/15, Ratio("Rent", "Office Rent"), 0.0001)
}

func TestRatioMonotonicity(t *testing.T) {
	closer := Ratio("Office Rent", "Rent")
	farther := Ratio("Office Rent", "Insurance")
	assert.Greater(t, closer, farther)
}

func TestClassifyThresholds(t *testing.T) {
	assert.Equal(t, TierHigh, Classify(100))
	assert.Equal(t, TierHigh, Classify(80.1))
	assert.Equal(t, TierMedium, Classify(80))
	assert.Equal(t, TierMedium, Classify(60.1))
	assert.Equal(t, TierLow, Classify(60))
	assert.Equal(t, TierLow, Classify(40.1))
	assert.Equal(t, TierNone, Classify(40))
	assert.Equal(t, TierNone, Classify(0))
}

func TestScorerCachesPairs(t *testing.T) {
	scorer := NewScorer()
	first := scorer.Score("Office Rent", "Rent")
	second := scorer.Score("Office Rent", "Rent")
	assert.Equal(t, first, second)
	assert.Len(t, scorer.cache, 1)
}

func TestScorerDistinguishesPairBoundaries(t *testing.T) {
	scorer := NewScorer()
	// "ab"+"c" and "a"+"bc" are different pairs and must not collide.
	ab := scorer.Score("ab", "c")
	a := scorer.Score("a", "bc")
	assert.Len(t, scorer.cache, 2)
	assert.Equal(t, Ratio("ab", "c"), ab)
	assert.Equal(t, Ratio("a", "bc"), a)
}
