package cli

import (
	"github.com/spf13/cobra"

	"SecurityNewsMonitor/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one monitoring pass and email the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.New(cfg, logger)
		return application.Run(cmd.Context())
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Identical to run, for manual verification",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("test run requested")
		application := app.New(cfg, logger)
		return application.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd, testCmd)
}
