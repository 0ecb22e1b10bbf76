// Package config loads, normalizes, and validates nvdrivers configuration.
//
// It supplies defaults equal to the lookups the tool has always run (GTX 1080
// desktop series, Windows 10 64-bit, Simplified Chinese), expands user paths
// including tilde shortcuts, reads TOML files, and honours environment
// fallbacks such as NVDRIVERS_OUTPUT. A missing configuration file is not an
// error: the defaults describe a complete run.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, resolved language codes, and clear validation errors.
package config
