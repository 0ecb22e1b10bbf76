// Package main hosts the nvdrivers CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the driver pipeline, prints the merged
// driver list and the optional history as tables, checks readiness of the
// lookup endpoint and output paths, and scaffolds configuration. It
// centralizes configuration resolution and logger setup so subcommands stay
// thin; the work itself lives in the internal packages.
package main
