// Package history keeps a SQLite record of every driver release the
// aggregator has merged, with the time it was first and last seen.
//
// The store is optional. When enabled, each run upserts its merged records so
// operators can tell which versions appeared since the previous run. Schema
// changes ship as numbered files under migrations/ and are applied in order
// on Open.
package history
