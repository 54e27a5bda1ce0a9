package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"SecurityNewsMonitor/internal/infrastructure/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show monitor status and configuration without running",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.NewFileStore(cfg.Storage.VendorsFile, logger)
		vendors, err := store.Load()
		if err != nil {
			return err
		}
		lastRun, err := store.LastRun()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Monitored vendors: %d\n", len(vendors))
		fmt.Fprintf(out, "Last run:          %s\n", formatLastRun(lastRun))
		fmt.Fprintf(out, "Email to:          %s\n", orUnset(cfg.SMTP.To))
		fmt.Fprintln(out, "Sources:")
		for _, site := range cfg.Sites {
			fmt.Fprintf(out, "  - %s (%s)\n", site.Name, site.URL)
		}
		fmt.Fprintf(out, "AI deduplication:  %s\n", enabledWord(cfg.Together.APIKey != ""))
		return nil
	},
}

func formatLastRun(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

func orUnset(s string) string {
	if s == "" {
		return "(not configured)"
	}
	return s
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
