// Package similarity scores how alike two account descriptions are and
// classifies the score into a confidence tier.
//
// The metric is a longest-matching-blocks sequence ratio: the strings are
// lowercased, the total length of their recursively matched common blocks
// is computed, and the result is scaled so identical strings score 100.
package similarity

import (
	"strings"
	"sync"
)

// Tier is the automatic confidence classification of a similarity score.
// Manual confidence is not a Tier: it can only originate from a user edit,
// never from scoring.
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
	TierNone   Tier = "None"
)

// Classify buckets a similarity score into a tier. The thresholds are a
// contract with downstream aggregation policy: High above 80, Medium above
// 60, Low above 40, otherwise None.
func Classify(score float64) Tier {
	switch {
	case score > 80:
		return TierHigh
	case score > 60:
		return TierMedium
	case score > 40:
		return TierLow
	default:
		return TierNone
	}
}

// Scorer computes similarity scores with a per-pair cache. The cache key
// is the exact input pair, so changed inputs can never observe a stale
// result; caching is purely an optimization.
type Scorer struct {
	mu    sync.RWMutex
	cache map[string]float64
}

// NewScorer creates a Scorer with an empty cache.
func NewScorer() *Scorer {
	return &Scorer{cache: make(map[string]float64)}
}

// Score returns the similarity of a and b in [0,100]. It is deterministic
// for a given pair and case-insensitive.
func (s *Scorer) Score(a, b string) float64 {
	key := a + "\x00" + b

	s.mu.RLock()
	score, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return score
	}

	score = Ratio(a, b)

	s.mu.Lock()
	s.cache[key] = score
	s.mu.Unlock()
	return score
}

// Ratio computes the matching-blocks similarity of a and b scaled to
// [0,100], without caching. Ratio(x, x) is always 100.
func Ratio(a, b string) float64 {
	if strings.EqualFold(a, b) {
		return 100
	}
	ar := []rune(strings.ToLower(a))
	br := []rune(strings.ToLower(b))
	total := len(ar) + len(br)
	if total == 0 {
		return 100
	}
	matched := matchedLength(ar, br, 0, len(ar), 0, len(br))
	return 200 * float64(matched) / float64(total)
}

// matchedLength sums the lengths of the matching blocks between
// a[alo:ahi] and b[blo:bhi]: the longest common substring, plus whatever
// matches recursively to its left and right.
func matchedLength(a, b []rune, alo, ahi, blo, bhi int) int {
	ai, bj, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	matched := size
	matched += matchedLength(a, b, alo, ai, blo, bj)
	matched += matchedLength(a, b, ai+size, ahi, bj+size, bhi)
	return matched
}

// longestMatch finds the longest block such that
// a[ai:ai+size] == b[bj:bj+size] within the given windows. Of all maximal
// blocks it returns the one starting earliest in a, then earliest in b,
// which keeps the metric deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	// j2len[j] holds the length of the match ending at a[i-1], b[j-1].
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
