// Package mapfile handles mapping table import and export
package mapfile

import (
	"fmt"

	"fjacquet/rolling-pl/cmd/root"

	"github.com/spf13/cobra"
)

// ImportCmd represents the import command
var ImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a legacy mapping file (CSV or YAML)",
	Long: `Seed the project's mapping table from a legacy export. The import
applies wholesale and only to a project whose table is completely
empty; it is never merged into existing mappings.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

// ExportCmd represents the export command
var ExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the mapping table to CSV or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  exportFunc,
}

func importFunc(cmd *cobra.Command, args []string) error {
	applied, err := root.Session.ImportMappings(root.SharedFlags.Project, args[0])
	if err != nil {
		return err
	}
	if !applied {
		fmt.Println("Import skipped: the project already has mappings.")
		return nil
	}
	fmt.Printf("Imported mappings from %s\n", args[0])
	return nil
}

func exportFunc(cmd *cobra.Command, args []string) error {
	if err := root.Session.ExportMappings(root.SharedFlags.Project, args[0]); err != nil {
		return err
	}
	fmt.Printf("Exported mappings to %s\n", args[0])
	return nil
}
