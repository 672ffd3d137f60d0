// Package mapgen handles the initial automatic mapping generation command
package mapgen

import (
	"fmt"

	"fjacquet/rolling-pl/cmd/root"

	"github.com/spf13/cobra"
)

var force bool

// Cmd represents the map command
var Cmd = &cobra.Command{
	Use:   "map",
	Short: "Generate the mapping table by similarity matching",
	Long: `Extract the source accounts and target categories of the current
project and auto-match every account to its most similar category. For a
project that already has mappings, use 'reconcile' instead; a full
regeneration with --force still keeps manual edits.`,
	RunE: mapFunc,
}

func mapFunc(cmd *cobra.Command, args []string) error {
	name := root.SharedFlags.Project
	if name == "" {
		name = root.Store.CurrentName()
	}
	if p, ok := root.Store.Project(name); ok && p.Mappings.Len() > 0 && !force {
		return fmt.Errorf("project %q already has %d mappings; run 'reconcile' to add new accounts or pass --force to regenerate",
			name, p.Mappings.Len())
	}

	table, err := root.Session.GenerateMappings(cmd.Context(), root.SharedFlags.Project)
	if err != nil {
		return err
	}

	for _, description := range table.Descriptions() {
		entry, _ := table.Get(description)
		fmt.Printf("%-40s -> %-30s %-6s %5.1f\n",
			description, entry.TargetCategory, entry.Confidence, entry.Similarity)
	}
	return nil
}

func init() {
	Cmd.Flags().BoolVarP(&force, "force", "f", false, "Regenerate even if mappings already exist")
}
