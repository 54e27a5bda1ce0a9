// Package cli contains all commands of the security news monitor.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"SecurityNewsMonitor/internal/config"
	"SecurityNewsMonitor/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "secnewsmonitor",
	Short: "Daily security-news monitor for your vendor list",
	Long: `secnewsmonitor scans TheHackerNews, BleepingComputer and SecurityWeek for
today's security news, matches articles against your monitored vendors,
collapses duplicate cross-source coverage and emails one prioritized report
when anything relevant was found.

Example usage:
  secnewsmonitor run             # one monitoring pass
  secnewsmonitor status          # last run time and configuration
  secnewsmonitor list            # monitored vendors
  secnewsmonitor add cisco       # add a vendor
  secnewsmonitor remove cisco    # remove a vendor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			cfg = config.LoadPath(cfgFile)
		} else {
			cfg = config.Load()
		}
		logger = logging.New(cfg.Logging.Level)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default from SECNEWS_CONFIG)")
}
