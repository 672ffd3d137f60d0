// Package reconcile handles the incremental reconciliation command
package reconcile

import (
	"fmt"

	"fjacquet/rolling-pl/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Integrate newly appeared accounts into the mapping table",
	Long: `Re-extract the source accounts and append mappings for accounts not
yet in the table. Existing entries, manual edits included, are never
re-scored or reordered; accounts that vanished from the source keep
their entries.`,
	RunE: reconcileFunc,
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	added, err := root.Session.Reconcile(cmd.Context(), root.SharedFlags.Project)
	if err != nil {
		return err
	}

	if len(added) == 0 {
		fmt.Println("No new accounts found.")
		return nil
	}
	fmt.Printf("Added %d new account(s):\n", len(added))
	for _, description := range added {
		fmt.Printf("  %s\n", description)
	}
	return nil
}
