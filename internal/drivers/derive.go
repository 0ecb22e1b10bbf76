package drivers

import (
	"strconv"
	"strings"
)

const (
	desktopMarker  = "-desktop-"
	notebookMarker = "-notebook-"
)

// DeriveNotebookURL maps a desktop package URL onto its notebook sibling by
// swapping the platform path segment. The result is not checked against the
// download server. It returns false when the URL has no desktop marker.
func DeriveNotebookURL(desktopURL string) (string, bool) {
	if !strings.Contains(desktopURL, desktopMarker) {
		return "", false
	}
	return strings.Replace(desktopURL, desktopMarker, notebookMarker, 1), true
}

// NotebookURLFor derives the notebook URL for a driver and applies the legacy
// fixups that match its version and packaging.
func NotebookURLFor(desktopURL, version string, dch bool) (string, bool) {
	notebook, ok := DeriveNotebookURL(desktopURL)
	if !ok {
		return "", false
	}
	return fixNotebookURL(notebook, version, dch), true
}

// ApplyLegacyFixups returns rec with the legacy notebook URL rules applied.
func ApplyLegacyFixups(rec Record) Record {
	if rec.NotebookURL != "" {
		rec.NotebookURL = fixNotebookURL(rec.NotebookURL, rec.Version, rec.DCH)
	}
	return rec
}

func fixNotebookURL(notebookURL, version string, dch bool) string {
	for _, fixup := range legacyNotebookFixups {
		if fixup.applies(version, dch) {
			notebookURL = strings.ReplaceAll(notebookURL, fixup.strip, "")
		}
	}
	return notebookURL
}

// legacyFixup is a known-data exception for URLs that do not follow the
// current naming scheme. Entries are matched explicitly and never inferred.
type legacyFixup struct {
	name    string
	dchOnly bool
	// before is the first release that no longer needs the fixup.
	before driverVersion
	// exempt lists releases below the cutoff that already use the current name.
	exempt map[string]struct{}
	strip  string
}

// legacyNotebookFixups is observed on the GTX 10-series notebook line:
// notebook DCH packages published before 472.12 have no "-dch" token,
// except 471.41 which shipped under the current name.
var legacyNotebookFixups = []legacyFixup{
	{
		name:    "pre-472.12 notebook DCH packages without -dch token",
		dchOnly: true,
		before:  driverVersion{major: 472, minor: 12},
		exempt:  map[string]struct{}{"471.41": {}},
		strip:   "-dch",
	},
}

func (f legacyFixup) applies(version string, dch bool) bool {
	if f.dchOnly && !dch {
		return false
	}
	if _, ok := f.exempt[strings.TrimSpace(version)]; ok {
		return false
	}
	parsed, ok := parseDriverVersion(version)
	if !ok {
		return false
	}
	return parsed.less(f.before)
}

type driverVersion struct {
	major int
	minor int
}

func (v driverVersion) less(other driverVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	return v.minor < other.minor
}

// parseDriverVersion reads a dotted numeric driver version. Versions with a
// non-numeric part or fewer than two parts are rejected.
func parseDriverVersion(version string) (driverVersion, bool) {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) < 2 {
		return driverVersion{}, false
	}
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return driverVersion{}, false
		}
		numbers = append(numbers, n)
	}
	return driverVersion{major: numbers[0], minor: numbers[1]}, true
}
