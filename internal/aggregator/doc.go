// Package aggregator runs the driver pipeline: look up every configured
// query, merge the batches, sort by release date, write the markdown report
// and optionally record what was seen in the history store.
//
// Lookup failures never abort a run. They are logged and the query counts as
// an empty batch, so a partial outage still yields a smaller valid report.
// Only report and history errors are returned to the caller.
package aggregator
