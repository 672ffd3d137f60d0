package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSubtotalDescription(t *testing.T) {
	markers := []string{"total"}

	assert.True(t, IsSubtotalDescription("Total Rent", markers))
	assert.True(t, IsSubtotalDescription("SUBTOTAL expenses", markers))
	assert.False(t, IsSubtotalDescription("Office Rent", markers))

	// Empty marker list falls back to the defaults.
	assert.True(t, IsSubtotalDescription("Grand Total", nil))

	custom := []string{"sum of", "net"}
	assert.True(t, IsSubtotalDescription("Sum of utilities", custom))
	assert.False(t, IsSubtotalDescription("Total Rent", custom))
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.50", "1234.5"},
		{"1,234.50", "1234.5"},
		{"(1,234.50)", "-1234.5"},
		{"$42", "42"},
		{"  -7.25 ", "-7.25"},
		{"0", "0"},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err, "ParseAmount(%q)", tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestParseAmountRejectsText(t *testing.T) {
	for _, in := range []string{"n/a", "see note 4", ""} {
		_, err := ParseAmount(in)
		assert.Error(t, err, "ParseAmount(%q)", in)
	}
}

func TestProjectReset(t *testing.T) {
	p := NewProject("lakeside", "Lakeside")
	p.SourceRange = "A8:F200"
	p.TargetRange = "A5:A40"
	p.TargetSheet = "Rolling"
	p.Mappings.Set("A", MappingEntry{Confidence: ConfidenceHigh, Similarity: 90})
	p.MonthlyAmounts["A"] = decimal.NewFromInt(10)
	p.TargetPeriodLabel = "Jun 2025 Actual"
	p.Workflow.MappingsGenerated = true

	p.Reset()

	assert.Equal(t, "A8:F200", p.SourceRange)
	assert.Equal(t, "A5:A40", p.TargetRange)
	assert.Equal(t, "Rolling", p.TargetSheet)
	assert.Zero(t, p.Mappings.Len())
	assert.Empty(t, p.MonthlyAmounts)
	assert.Empty(t, p.TargetPeriodLabel)
	assert.False(t, p.Workflow.MappingsGenerated)
}

func TestProjectEnsureInitialized(t *testing.T) {
	p := &Project{Name: "bare"}
	p.EnsureInitialized()
	assert.NotNil(t, p.Mappings)
	assert.NotNil(t, p.MonthlyAmounts)
	assert.NotNil(t, p.AggregatedTotals)
}
