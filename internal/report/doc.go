// Package report renders merged driver records as the markdown driver list.
//
// Render produces the document; WriteFile renders into memory, takes an
// advisory lock next to the target and replaces the file in one rename so a
// reader never sees a half-written report. Labels are localized by locale.
package report
