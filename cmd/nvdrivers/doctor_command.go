package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nvdrivers/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the lookup endpoint and output paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configSource(ctx.configPath, ctx.configExists), colorize))
			fmt.Fprintln(out, renderStatusLine("Product", statusInfo, fmt.Sprintf("%s (psid %d, pfid %d)", cfg.Product.Name, cfg.Product.SeriesID, cfg.Product.FamilyID), colorize))
			fmt.Fprintln(out, renderStatusLine("Queries", statusInfo, fmt.Sprintf("%d configured", len(cfg.Queries)), colorize))
			fmt.Fprintln(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, line := range checkLines(results, colorize) {
				fmt.Fprintln(out, line)
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}

func configSource(path string, exists bool) string {
	if !exists {
		return fmt.Sprintf("defaults (no file at %s)", path)
	}
	return path
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := renderSectionHeader("Checks", colorize)
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
