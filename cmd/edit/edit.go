// Package edit handles manual mapping edits
package edit

import (
	"fmt"

	"fjacquet/rolling-pl/cmd/root"

	"github.com/spf13/cobra"
)

var (
	description string
	category    string
	clearFlag   bool
)

// Cmd represents the edit command
var Cmd = &cobra.Command{
	Use:   "edit",
	Short: "Manually confirm or clear a mapping",
	Long: `Set a manual mapping for one source account description. Manual
mappings carry Manual confidence and survive every regeneration and
reconciliation until cleared with --clear, which re-resolves the
description automatically.`,
	RunE: editFunc,
}

func editFunc(cmd *cobra.Command, args []string) error {
	if clearFlag {
		entry, err := root.Session.ClearManual(cmd.Context(), root.SharedFlags.Project, description)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s (%s, %.1f)\n",
			description, entry.TargetCategory, entry.Confidence, entry.Similarity)
		return nil
	}

	if category == "" {
		return fmt.Errorf("either --category or --clear is required")
	}
	if err := root.Session.SetManual(root.SharedFlags.Project, description, category); err != nil {
		return err
	}
	fmt.Printf("%s -> %s (Manual)\n", description, category)
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Source account description (required)")
	Cmd.Flags().StringVarP(&category, "category", "c", "", "Target category to assign")
	Cmd.Flags().BoolVar(&clearFlag, "clear", false, "Clear the manual edit and re-resolve automatically")
	_ = Cmd.MarkFlagRequired("description")
}
