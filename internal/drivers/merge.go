package drivers

import "strings"

// Entry is the subset of a lookup result the merge needs.
type Entry struct {
	Version     string
	ReleaseDate string
	DownloadURL string
}

// Batch groups the entries returned by a single lookup with the packaging
// and channel the lookup asked for.
type Batch struct {
	DCH     bool
	Channel Channel
	Entries []Entry
}

// Merger accumulates lookup batches into records keyed by version,
// packaging and channel. Metadata is taken from the first entry seen for a
// key; download URLs only fill fields that are still empty.
type Merger struct {
	index   map[Key]int
	records []Record
}

// NewMerger returns an empty Merger.
func NewMerger() *Merger {
	return &Merger{index: make(map[Key]int)}
}

// Add folds every entry of batch into the merged set. Entries without a
// version are skipped.
func (m *Merger) Add(batch Batch) {
	for _, entry := range batch.Entries {
		m.addEntry(batch, entry)
	}
}

func (m *Merger) addEntry(batch Batch, entry Entry) {
	version := strings.TrimSpace(entry.Version)
	if version == "" {
		return
	}
	key := Key{Version: version, DCH: batch.DCH, Channel: batch.Channel}
	idx, ok := m.index[key]
	if !ok {
		idx = len(m.records)
		m.index[key] = idx
		m.records = append(m.records, Record{
			Version:     version,
			ReleaseDate: strings.TrimSpace(entry.ReleaseDate),
			Channel:     batch.Channel,
			DCH:         batch.DCH,
		})
	}

	desktop := strings.TrimSpace(entry.DownloadURL)
	if desktop == "" {
		return
	}
	rec := &m.records[idx]
	if rec.DesktopURL == "" {
		rec.DesktopURL = desktop
	}
	// The notebook link always mirrors the record's own desktop link.
	if rec.NotebookURL == "" {
		if notebook, ok := NotebookURLFor(rec.DesktopURL, version, batch.DCH); ok {
			rec.NotebookURL = notebook
		}
	}
}

// Len reports the number of distinct records merged so far.
func (m *Merger) Len() int {
	return len(m.records)
}

// Records returns a copy of the merged records in first-seen order.
func (m *Merger) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Merge folds batches in order and returns the merged records.
func Merge(batches ...Batch) []Record {
	m := NewMerger()
	for _, batch := range batches {
		m.Add(batch)
	}
	return m.Records()
}
