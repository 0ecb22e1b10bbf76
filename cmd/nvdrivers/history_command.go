package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nvdrivers/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show driver versions recorded by previous runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("%w; set [history] enabled = true", history.ErrDisabled)
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "History is empty")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			fmt.Fprintln(out, renderHistoryTable(entries, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many entries (0 for all)")
	return cmd
}

func renderHistoryTable(entries []history.Entry, colorize bool) string {
	headers := []string{"Version", "Released", "Type", "Channel", "First Seen", "Last Seen"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Version,
			entry.ReleaseDate,
			entry.Architecture(),
			entry.Channel.String(),
			humanize.Time(entry.FirstSeen),
			humanize.Time(entry.LastSeen),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight}, colorize)
}
