package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nvdrivers/internal/aggregator"
	"nvdrivers/internal/drivers"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch driver lists and print them without writing the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			client, err := ctx.lookupClient()
			if err != nil {
				return err
			}

			records, summary := aggregator.New(cfg, client, logger).Collect(cmd.Context())

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No drivers found")
				return nil
			}
			fmt.Fprintln(out, renderDriverTable(records, shouldColorize(out)))
			fmt.Fprintf(out, "%d versions from %d lookups (%d failed)\n", summary.Records, summary.Queries, summary.Failed)
			return nil
		},
	}
}

func renderDriverTable(records []drivers.Record, colorize bool) string {
	headers := []string{"Version", "Released", "Type", "Channel", "Desktop", "Notebook"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Version,
			rec.ReleaseDate,
			rec.Architecture(),
			rec.Channel.String(),
			yesNo(rec.DesktopURL != ""),
			yesNo(rec.NotebookURL != ""),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight}, colorize)
}
