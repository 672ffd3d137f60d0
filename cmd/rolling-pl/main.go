// Package main provides the entry point for the rolling-pl CLI application.
package main

import (
	"os"

	"fjacquet/rolling-pl/cmd/aggregate"
	"fjacquet/rolling-pl/cmd/edit"
	"fjacquet/rolling-pl/cmd/mapfile"
	"fjacquet/rolling-pl/cmd/mapgen"
	"fjacquet/rolling-pl/cmd/projects"
	"fjacquet/rolling-pl/cmd/reconcile"
	"fjacquet/rolling-pl/cmd/root"
	"fjacquet/rolling-pl/cmd/write"
)

func main() {
	root.Init()

	root.Cmd.AddCommand(projects.Cmd)
	root.Cmd.AddCommand(mapgen.Cmd)
	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(edit.Cmd)
	root.Cmd.AddCommand(mapfile.ImportCmd)
	root.Cmd.AddCommand(mapfile.ExportCmd)
	root.Cmd.AddCommand(aggregate.Cmd)
	root.Cmd.AddCommand(write.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		root.Log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
