// Package aggregate handles amount extraction and aggregation
package aggregate

import (
	"fmt"
	"sort"

	"fjacquet/rolling-pl/cmd/root"

	"github.com/spf13/cobra"
)

var periodLabel string

// Cmd represents the aggregate command
var Cmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Extract period amounts and sum them by target category",
	Long: `Locate the reporting-period column in the source sheet, read each
account's amount for that period, and sum the amounts by mapped target
category. Subtotal rows and unmapped accounts are excluded from the
totals.`,
	RunE: aggregateFunc,
}

func aggregateFunc(cmd *cobra.Command, args []string) error {
	records, err := root.Session.ExtractAmounts(cmd.Context(), root.SharedFlags.Project, periodLabel)
	if err != nil {
		return err
	}
	count := 0
	for _, record := range records {
		if record.HasAmount {
			count++
		}
	}
	fmt.Printf("Extracted %d amount(s) from %d account(s)\n", count, len(records))

	totals, err := root.Session.Aggregate(root.SharedFlags.Project)
	if err != nil {
		return err
	}

	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("%-30s %12s\n", category, totals[category].StringFixed(2))
	}
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&periodLabel, "period", "p", "",
		"Reporting-period column label (e.g. \"Jun 2025 Actual\"); auto-detected when empty")
}
