package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nvdrivers/internal/aggregator"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch driver lists and write the markdown report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputPath) != "" {
				if err := cfg.SetReportPath(outputPath); err != nil {
					return err
				}
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := ctx.logger(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			client, err := ctx.lookupClient()
			if err != nil {
				return err
			}

			result, err := aggregator.New(cfg, client, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total unique driver entries merged: %d\n", result.Summary.Records)
			fmt.Fprintf(out, "Saved results to %s (%s)\n", result.ReportPath, humanize.Bytes(uint64(result.Bytes)))
			if result.Summary.Failed > 0 {
				fmt.Fprintf(out, "%d of %d lookups failed; the report is incomplete\n", result.Summary.Failed, result.Summary.Queries)
			}
			if cfg.History.Enabled {
				fmt.Fprintf(out, "New versions since last run: %d\n", len(result.NewKeys))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to this path instead of the configured one")
	return cmd
}
