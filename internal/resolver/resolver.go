// Package resolver assigns the best target category to each source
// account description using similarity scoring.
package resolver

import (
	"sort"

	"fjacquet/rolling-pl/internal/models"
	"fjacquet/rolling-pl/internal/similarity"
)

// Assignment is the automatic resolution result for one description. Its
// Tier deliberately cannot express Manual confidence: manual state only
// enters a mapping table through an explicit user edit in the store.
type Assignment struct {
	TargetCategory string
	Similarity     float64
	Tier           similarity.Tier
}

// Entry converts an automatic assignment into a mapping table entry.
func (a Assignment) Entry() models.MappingEntry {
	return models.MappingEntry{
		TargetCategory: a.TargetCategory,
		Confidence:     models.Confidence(a.Tier),
		Similarity:     a.Similarity,
		ManuallyEdited: false,
	}
}

// ResolveOne scores a single description against every target and returns
// the best assignment. Ties on the maximum score go to the target with the
// lowest row order, so results are deterministic and stable across runs.
// An empty target list yields an empty assignment with tier None, which is
// a degraded-but-valid result.
func ResolveOne(description string, targets []models.TargetCategory, scorer *similarity.Scorer) Assignment {
	if len(targets) == 0 {
		return Assignment{Tier: similarity.TierNone}
	}

	ordered := append([]models.TargetCategory{}, targets...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RowOrder < ordered[j].RowOrder
	})

	best := ordered[0]
	bestScore := scorer.Score(description, best.Name)
	for _, target := range ordered[1:] {
		score := scorer.Score(description, target.Name)
		// Strict comparison: on a tie the earlier (lower row order)
		// target wins.
		if score > bestScore {
			best = target
			bestScore = score
		}
	}

	return Assignment{
		TargetCategory: best.Name,
		Similarity:     bestScore,
		Tier:           similarity.Classify(bestScore),
	}
}

// Resolve produces a complete mapping table with one entry per account
// record, in record order. Subtotal records are excluded from scoring and
// receive the fixed subtotal entry. Running Resolve twice on the same
// inputs produces identical tables.
func Resolve(accounts []models.AccountRecord, targets []models.TargetCategory, scorer *similarity.Scorer) *models.MappingTable {
	table := models.NewMappingTable()
	for _, account := range accounts {
		if account.IsSubtotal {
			table.Set(account.Description, models.SubtotalEntry())
			continue
		}
		table.Set(account.Description, ResolveOne(account.Description, targets, scorer).Entry())
	}
	return table
}
