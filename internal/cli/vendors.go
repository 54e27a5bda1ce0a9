package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"SecurityNewsMonitor/internal/infrastructure/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all monitored vendors",
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

		names := make([]string, 0, len(vendors))
		for _, v := range vendors {
			names = append(names, v.Name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Monitored vendors (%d):\n", len(names))
		for i, name := range names {
			fmt.Fprintf(out, "%3d. %s\n", i+1, name)
		}
		fmt.Fprintf(out, "Last run: %s\n", formatLastRun(lastRun))
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <vendor>",
	Short: "Add a vendor to monitor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		store := storage.NewFileStore(cfg.Storage.VendorsFile, logger)
		if err := store.Add(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added vendor: %s\n", strings.ToLower(name))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <vendor>",
	Short: "Remove a vendor from monitoring",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		store := storage.NewFileStore(cfg.Storage.VendorsFile, logger)
		if err := store.Remove(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed vendor: %s\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, removeCmd)
}
