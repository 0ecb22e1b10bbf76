// Package drivers holds the driver record model and the pure transformations
// applied to lookup results before they are reported.
//
// Records are keyed by version, packaging (DCH or Standard) and release
// channel. A Merger folds lookup batches into that keyed set, deriving the
// notebook download link from the desktop link and applying the documented
// legacy URL fixups. SortByReleaseDate orders the result newest first.
package drivers
