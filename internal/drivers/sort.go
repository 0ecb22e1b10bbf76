package drivers

import (
	"slices"
	"time"
)

// ReleaseDateLayout is the date format the lookup service returns for the
// configured locale.
const ReleaseDateLayout = "2006-01-02"

// SortByReleaseDate orders records newest first. If any release date fails
// to parse the slice is left in its original order and false is returned.
func SortByReleaseDate(records []Record) bool {
	dates := make(map[string]time.Time, len(records))
	for _, rec := range records {
		if _, ok := dates[rec.ReleaseDate]; ok {
			continue
		}
		parsed, err := time.Parse(ReleaseDateLayout, rec.ReleaseDate)
		if err != nil {
			return false
		}
		dates[rec.ReleaseDate] = parsed
	}
	slices.SortStableFunc(records, func(a, b Record) int {
		return dates[b.ReleaseDate].Compare(dates[a.ReleaseDate])
	})
	return true
}
