// Package nvidia provides the minimal client for NVIDIA's driver lookup
// service (AjaxDriverService DriverManualLookup).
//
// A Query names the product series, operating system, language and the
// packaging/channel/WHQL flags; Lookup issues one GET per query and decodes
// the JSON answer. Options allow tests to supply custom HTTP clients.
package nvidia
