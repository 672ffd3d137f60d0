// Package write handles the statement write command
package write

import (
	"fmt"

	"fjacquet/rolling-pl/cmd/root"

	"github.com/spf13/cobra"
)

var outputPath string

// Cmd represents the write command
var Cmd = &cobra.Command{
	Use:   "write",
	Short: "Merge aggregated totals into the rolling statement",
	Long: `Write each aggregated total into its category's cell for the
reporting period. Existing cell values and formulas are preserved by
merging the total into an addition formula; cells that cannot be merged
are reported and left untouched.`,
	RunE: writeFunc,
}

func writeFunc(cmd *cobra.Command, args []string) error {
	report, err := root.Session.WriteStatement(cmd.Context(), root.SharedFlags.Project, outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Write report %s\n", report.ID)
	for _, w := range report.Written {
		fmt.Printf("  %-30s %s!%s = %s\n", w.Category, w.Sheet, w.Cell, w.Written)
	}
	if report.Failed() {
		fmt.Printf("%d cell(s) could not be written:\n", len(report.Errors))
		for _, cellErr := range report.Errors {
			fmt.Printf("  %v\n", cellErr)
		}
		return fmt.Errorf("statement write finished with %d error(s)", len(report.Errors))
	}
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Workbook to write into (defaults to the configured target workbook)")
}
