// Package preflight provides readiness checks for the lookup endpoint and
// the filesystem paths nvdrivers writes to.
//
// The CLI "nvdrivers doctor" command runs RunAll and prints one line per
// result. Checks never return errors; a failed check carries its reason in
// Detail.
package preflight
