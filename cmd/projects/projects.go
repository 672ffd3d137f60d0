// Package projects handles project discovery and selection commands
package projects

import (
	"fmt"

	"fjacquet/rolling-pl/cmd/root"
	"fjacquet/rolling-pl/internal/models"
	"fjacquet/rolling-pl/internal/workbook"

	"github.com/spf13/cobra"
)

var (
	sourcePath  string
	targetPath  string
	sourceRange string
	targetRange string
	targetSheet string
)

// Cmd represents the projects command
var Cmd = &cobra.Command{
	Use:   "projects",
	Short: "Discover, list, select and configure projects",
	Long: `Manage the projects tracked in the settings file. A project is one
property sheet in the source workbook; each keeps its own ranges and
mapping table.`,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the source workbook for project sheets",
	Long:  `Scan every sheet of the source workbook; sheets naming a project in cell A1 are registered.`,
	RunE:  scanFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known projects",
	RunE:  listFunc,
}

var selectCmd = &cobra.Command{
	Use:   "select <project>",
	Short: "Make a project the current one",
	Args:  cobra.ExactArgs(1),
	RunE:  selectFunc,
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set the ranges and target sheet of a project",
	RunE:  configureFunc,
}

var resetCmd = &cobra.Command{
	Use:   "reset <project>",
	Short: "Clear a project's mappings and amounts, keeping its ranges",
	Args:  cobra.ExactArgs(1),
	RunE:  resetFunc,
}

var removeCmd = &cobra.Command{
	Use:   "remove <project>",
	Short: "Delete a project from the settings file",
	Args:  cobra.ExactArgs(1),
	RunE:  removeFunc,
}

func scanFunc(cmd *cobra.Command, args []string) error {
	if sourcePath != "" || targetPath != "" {
		if err := root.Store.SetWorkbooks(sourcePath, targetPath); err != nil {
			return err
		}
	}

	found, err := root.Session.ScanProjects(cmd.Context())
	if err != nil {
		return err
	}
	for _, ps := range found {
		fmt.Printf("%s (sheet %q)\n", ps.Name, ps.Sheet)
	}
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	current := root.Store.CurrentName()
	for _, name := range root.Store.ProjectNames() {
		p, _ := root.Store.Project(name)
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Printf("%s %s  sheet=%q mappings=%d\n", marker, name, p.SourceSheet, p.Mappings.Len())
	}
	return nil
}

func selectFunc(cmd *cobra.Command, args []string) error {
	if err := root.Store.SelectProject(args[0]); err != nil {
		return err
	}
	fmt.Printf("Selected project %q\n", args[0])
	return nil
}

func configureFunc(cmd *cobra.Command, args []string) error {
	name := root.SharedFlags.Project
	if name == "" {
		name = root.Store.CurrentName()
	}
	if name == "" {
		return fmt.Errorf("no project selected, pass --project or run 'projects select'")
	}

	return root.Store.UpdateProject(name, func(p *models.Project) error {
		if sourceRange != "" {
			if _, err := workbook.ParseRange(sourceRange); err != nil {
				return err
			}
			p.SourceRange = sourceRange
		}
		if targetRange != "" {
			if _, err := workbook.ParseRange(targetRange); err != nil {
				return err
			}
			p.TargetRange = targetRange
		}
		if targetSheet != "" {
			p.TargetSheet = targetSheet
		}
		return nil
	})
}

func resetFunc(cmd *cobra.Command, args []string) error {
	if err := root.Store.ResetProject(args[0]); err != nil {
		return err
	}
	fmt.Printf("Project %q reset\n", args[0])
	return nil
}

func removeFunc(cmd *cobra.Command, args []string) error {
	if err := root.Store.RemoveProject(args[0]); err != nil {
		return err
	}
	fmt.Printf("Project %q removed\n", args[0])
	return nil
}

func init() {
	scanCmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source P&L workbook path")
	scanCmd.Flags().StringVarP(&targetPath, "target", "t", "", "Rolling statement workbook path")

	configureCmd.Flags().StringVar(&sourceRange, "source-range", "", "Account range in the source sheet (e.g. A8:F200)")
	configureCmd.Flags().StringVar(&targetRange, "target-range", "", "Category range in the target sheet (e.g. A5:A40)")
	configureCmd.Flags().StringVar(&targetSheet, "target-sheet", "", "Sheet of the rolling statement to write into")

	Cmd.AddCommand(scanCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(selectCmd)
	Cmd.AddCommand(configureCmd)
	Cmd.AddCommand(resetCmd)
	Cmd.AddCommand(removeCmd)
}
