// Package root contains the root command for the application
package root

import (
	"fjacquet/rolling-pl/internal/config"
	"fjacquet/rolling-pl/internal/engine"
	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/store"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Project string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg is the resolved application configuration
	Cfg *config.Config

	// Store is the shared project store, loaded before any command runs
	Store *store.ProjectStore

	// Session is the shared pipeline session bound to Cfg and Store
	Session *engine.Session

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "rolling-pl",
		Short: "Map P&L account lines onto rolling statement categories.",
		Long: `rolling-pl reconciles free-text P&L account descriptions against the
fixed categories of a rolling P&L statement. It auto-matches accounts by
lexical similarity, keeps manual corrections permanent, reconciles newly
appearing accounts, and merges aggregated totals into the statement
workbook without destroying existing values or formulas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			Log.Info("Welcome to rolling-pl!")
			Log.Info("Use --help to see available commands")
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			var err error
			Cfg, err = config.InitializeConfig()
			if err != nil {
				return err
			}
			Log = config.ConfigureLogging(Cfg)
			logging.SetLogger(Log)

			Store = store.NewProjectStore(Cfg.SettingsPath(), Log)
			if err := Store.Load(); err != nil {
				return err
			}
			Session = engine.NewSession(Cfg, Store, Log)
			return nil
		},
	}

	// SharedFlags are the flags common to multiple commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Project, "project", "P", "",
		"Project to operate on (defaults to the selected project)")
	Cmd.SilenceUsage = true
}
