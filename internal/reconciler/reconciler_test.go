package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/rolling-pl/internal/models"
	"fjacquet/rolling-pl/internal/similarity"
)

func accounts(descriptions ...string) []models.AccountRecord {
	records := make([]models.AccountRecord, len(descriptions))
	for i, description := range descriptions {
		records[i] = models.AccountRecord{Description: description, RowOrder: i}
	}
	return records
}

func TestReconcileAppendsOnlyNewAccounts(t *testing.T) {
	scorer := similarity.NewScorer()
	targets := []models.TargetCategory{{Name: "Rent", RowOrder: 0}, {Name: "Insurance", RowOrder: 1}}

	table := models.NewMappingTable()
	table.Set("A", models.MappingEntry{TargetCategory: "Rent", Confidence: models.ConfidenceHigh, Similarity: 90})
	table.Set("B", models.MappingEntry{TargetCategory: "Insurance", Confidence: models.ConfidenceMedium, Similarity: 70})

	added := Reconcile(table, accounts("B", "A", "C"), targets, scorer)

	assert.Equal(t, []string{"C"}, added)
	// Existing order is untouched; the new account lands at the end.
	assert.Equal(t, []string{"A", "B", "C"}, table.Descriptions())
}

func TestReconcileKeepsExistingEntriesUntouched(t *testing.T) {
	scorer := similarity.NewScorer()
	targets := []models.TargetCategory{{Name: "Utilities", RowOrder: 0}}

	manual := models.MappingEntry{
		TargetCategory: "Rent",
		Confidence:     models.ConfidenceManual,
		Similarity:     100,
		ManuallyEdited: true,
	}
	table := models.NewMappingTable()
	table.Set("Office Rent", manual)

	Reconcile(table, accounts("Office Rent", "Electricity"), targets, scorer)

	got, ok := table.Get("Office Rent")
	require.True(t, ok)
	assert.Equal(t, manual, got, "reconcile must never re-score an existing entry")
}

func TestReconcileRetainsVanishedAccounts(t *testing.T) {
	scorer := similarity.NewScorer()
	table := models.NewMappingTable()
	table.Set("Gone", models.MappingEntry{TargetCategory: "Rent", Confidence: models.ConfidenceLow, Similarity: 45})

	added := Reconcile(table, accounts("Here"), nil, scorer)

	assert.Equal(t, []string{"Here"}, added)
	assert.True(t, table.Has("Gone"), "entries for vanished accounts are kept for continuity")
}

func TestReconcileSubtotalGetsFixedEntry(t *testing.T) {
	scorer := similarity.NewScorer()
	table := models.NewMappingTable()

	extracted := []models.AccountRecord{{Description: "Total Expenses", RowOrder: 0, IsSubtotal: true}}
	added := Reconcile(table, extracted, []models.TargetCategory{{Name: "Expenses"}}, scorer)

	require.Equal(t, []string{"Total Expenses"}, added)
	entry, _ := table.Get("Total Expenses")
	assert.Equal(t, models.SubtotalEntry(), entry)
}

func TestReconcileIdempotent(t *testing.T) {
	scorer := similarity.NewScorer()
	targets := []models.TargetCategory{{Name: "Rent", RowOrder: 0}}
	table := models.NewMappingTable()

	first := Reconcile(table, accounts("A", "B"), targets, scorer)
	second := Reconcile(table, accounts("A", "B"), targets, scorer)

	assert.Len(t, first, 2)
	assert.Empty(t, second)
	assert.Equal(t, []string{"A", "B"}, table.Descriptions())
}
