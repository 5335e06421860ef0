// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/aatmin/internal/aat"
	"github.com/pdiddy/aatmin/internal/history"
	"github.com/pdiddy/aatmin/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded scans from the history database",
	Long: `History lists scans recorded while history.enabled is set, newest
first, followed by the lowest L1 AAT ever recorded and the cache settings
of the run that produced it.

Use --format yaml to export the listed scans as a YAML sequence.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := loadConfig()
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")
		return runHistory(cmd.Context(), cfg.History, limit, format, cmd.OutOrStdout())
	},
}

func runHistory(ctx context.Context, cfg types.HistoryConfig, limit int, format string, w io.Writer) error {
	if format != "" && format != "table" && format != "yaml" {
		return fmt.Errorf("unsupported format %q: use table or yaml", format)
	}

	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if format == "yaml" {
		return history.ExportYAML(w, entries)
	}
	return formatHistoryTable(ctx, store, entries, w)
}

func formatHistoryTable(ctx context.Context, store *history.Store, entries []history.Entry, w io.Writer) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No scans recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-24s  %-8s  %-6s  %s\n",
		"ID", "Scanned", "Path", "Matches", "Line", "Minimum")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, e := range entries {
		path := e.Path
		if len(path) > 24 {
			path = "..." + path[len(path)-21:]
		}
		fmt.Fprintf(w, "%-4d  %-20s  %-24s  %-8d  %-6d  %s\n",
			e.ID, e.ScannedAt.Local().Format("2006-01-02 15:04:05"), path, e.Matches, e.Line,
			aat.FormatValue(e.Summary()))
	}

	best, ok, err := store.Best(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(w, "\nBest: %s (scan %d, %s line %d)\n",
			aat.FormatValue(best.Summary()), best.ID, best.Path, best.Line)
		for _, s := range best.Settings {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum entries to list (0 = history.limit)")
	historyCmd.Flags().String("format", "table", "output format: table or yaml")

	rootCmd.AddCommand(historyCmd)
}
