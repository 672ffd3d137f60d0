package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/rolling-pl/internal/models"
	"fjacquet/rolling-pl/internal/similarity"
)

func targetList(names ...string) []models.TargetCategory {
	targets := make([]models.TargetCategory, len(names))
	for i, name := range names {
		targets[i] = models.TargetCategory{Name: name, RowOrder: i}
	}
	return targets
}

func TestResolveOnePicksBestTarget(t *testing.T) {
	scorer := similarity.NewScorer()
	targets := targetList("Rent", "Insurance", "Utilities")

	got := ResolveOne("Office Rent", targets, scorer)

	assert.Equal(t, "Rent", got.TargetCategory)
	assert.Greater(t, got.Similarity, 40.0)
}

func TestResolveOneExactMatchIsHigh(t *testing.T) {
	scorer := similarity.NewScorer()
	got := ResolveOne("Rent", targetList("Rent", "Insurance"), scorer)

	assert.Equal(t, "Rent", got.TargetCategory)
	assert.Equal(t, 100.0, got.Similarity)
	assert.Equal(t, similarity.TierHigh, got.Tier)
}

func TestResolveOneTieGoesToLowerRowOrder(t *testing.T) {
	scorer := similarity.NewScorer()
	// Both targets score identically against the description; the one
	// appearing first in the destination wins.
	targets := []models.TargetCategory{
		{Name: "abxx", RowOrder: 1},
		{Name: "abyy", RowOrder: 0},
	}

	got := ResolveOne("ab", targets, scorer)
	assert.Equal(t, "abyy", got.TargetCategory)
}

func TestResolveOneEmptyTargets(t *testing.T) {
	got := ResolveOne("Rent", nil, similarity.NewScorer())
	assert.Empty(t, got.TargetCategory)
	assert.Equal(t, similarity.TierNone, got.Tier)
	assert.Zero(t, got.Similarity)
}

func TestAssignmentEntryNeverManual(t *testing.T) {
	entry := Assignment{TargetCategory: "Rent", Similarity: 95, Tier: similarity.TierHigh}.Entry()
	assert.False(t, entry.ManuallyEdited)
	assert.NotEqual(t, models.ConfidenceManual, entry.Confidence)
	require.NoError(t, entry.Validate())
}

func TestResolveBuildsTableInRecordOrder(t *testing.T) {
	scorer := similarity.NewScorer()
	accounts := []models.AccountRecord{
		{Description: "Office Rent", RowOrder: 0},
		{Description: "Total Rent", RowOrder: 1, IsSubtotal: true},
		{Description: "CAM Charges", RowOrder: 2},
	}
	targets := targetList("Rent", "Common Area Maintenance", "Insurance")

	table := Resolve(accounts, targets, scorer)

	require.Equal(t, []string{"Office Rent", "Total Rent", "CAM Charges"}, table.Descriptions())

	rent, _ := table.Get("Office Rent")
	assert.Equal(t, "Rent", rent.TargetCategory)

	subtotal, _ := table.Get("Total Rent")
	assert.Empty(t, subtotal.TargetCategory)
	assert.Equal(t, models.ConfidenceNone, subtotal.Confidence)
	assert.False(t, subtotal.ManuallyEdited)
}

func TestResolveIsDeterministic(t *testing.T) {
	scorer := similarity.NewScorer()
	accounts := []models.AccountRecord{
		{Description: "Electricity", RowOrder: 0},
		{Description: "Water & Sewer", RowOrder: 1},
	}
	targets := targetList("Utilities", "Repairs", "Insurance")

	first := Resolve(accounts, targets, scorer)
	second := Resolve(accounts, targets, similarity.NewScorer())

	require.Equal(t, first.Descriptions(), second.Descriptions())
	for _, description := range first.Descriptions() {
		a, _ := first.Get(description)
		b, _ := second.Get(description)
		assert.Equal(t, a, b)
	}
}
