package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/pem/internal/logger"
	"github.com/rileyhilliard/pem/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noRestart bool
	dryRun    bool
)

// rootCmd is `pem` itself. Without a subcommand it opens the menu.
var rootCmd = &cobra.Command{
	Use:   "pem",
	Short: "Manage Prometheus exporter targets",
	Long: `pem adds and removes monitored hosts across the Prometheus scrape config
and the blackbox IPv4/IPv6 target lists, keeping the three files in sync,
then restarts Prometheus so the change takes effect.

Run without a command for the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyGlobalFlags()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return menuCommand(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default ./.pem.yaml, then ~/.config/pem/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noRestart, "no-restart", false, "don't restart Prometheus after a change")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing files")
}

func applyGlobalFlags() {
	if noColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColors()
	}
	logger.SetVerbose(verbose)
}

// Execute runs the root command. Errors are printed to stderr and end the
// process with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, renderError(err))
		os.Exit(1)
	}
}
