// Package models defines the core data types of the account-mapping
// engine: extracted account records, target categories, mapping entries,
// the order-preserving mapping table, and per-project state.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountRecord is one row extracted from the source P&L range. Identity
// is the description; it must be unique within one extraction.
type AccountRecord struct {
	Description string
	// RowOrder preserves source-file order (0-based extraction index).
	// Never reordered after extraction.
	RowOrder int
	// SheetRow is the 1-based workbook row the record came from, used to
	// locate the amount cell for the reporting period.
	SheetRow int
	// Amount is the period amount, valid only when HasAmount is true.
	Amount    decimal.Decimal
	HasAmount bool
	// IsSubtotal marks rows whose description contains a subtotal marker.
	// Subtotal rows are permanently excluded from mapping.
	IsSubtotal bool
}

// TargetCategory is one fixed report category from the rolling P&L.
// Identity is the name, unique within one target-range extraction.
type TargetCategory struct {
	Name     string
	RowOrder int
}

// ParseAmount parses an evaluated cell text as a decimal amount. It
// tolerates thousands separators, a currency prefix, and accounting-style
// parenthesized negatives like "(1,234.50)".
func ParseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
	}
	return decimal.NewFromString(cleaned)
}

// DefaultSubtotalMarkers are the description substrings that flag a source
// row as a subtotal when no markers are configured.
var DefaultSubtotalMarkers = []string{"total"}

// IsSubtotalDescription reports whether a description contains any of the
// given subtotal markers, case-insensitively.
func IsSubtotalDescription(description string, markers []string) bool {
	if len(markers) == 0 {
		markers = DefaultSubtotalMarkers
	}
	lower := strings.ToLower(description)
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
