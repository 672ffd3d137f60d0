// Package reconciler integrates freshly extracted account lists into an
// existing mapping table without disturbing confirmed entries.
package reconciler

import (
	"fjacquet/rolling-pl/internal/models"
	"fjacquet/rolling-pl/internal/resolver"
	"fjacquet/rolling-pl/internal/similarity"
)

// Reconcile appends entries for accounts that appear in the extraction but
// not in the table, auto-matched against the current targets, in
// extraction order. Existing entries are never re-scored, re-ordered, or
// removed; entries whose description no longer appears in the extraction
// are retained for continuity. The returned slice lists the descriptions
// that were added.
func Reconcile(table *models.MappingTable, extracted []models.AccountRecord, targets []models.TargetCategory, scorer *similarity.Scorer) []string {
	var added []string
	for _, account := range extracted {
		if table.Has(account.Description) {
			continue
		}
		if account.IsSubtotal {
			table.Set(account.Description, models.SubtotalEntry())
		} else {
			table.Set(account.Description, resolver.ResolveOne(account.Description, targets, scorer).Entry())
		}
		added = append(added, account.Description)
	}
	return added
}
