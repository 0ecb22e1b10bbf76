package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"nvdrivers/internal/drivers"
)

const timestampLayout = "2006-01-02 15:04:05"

// Options controls the report header.
type Options struct {
	Title       string
	Product     string
	GeneratedAt time.Time
	Labels      Labels
}

func (o Options) labels() Labels {
	if o.Labels.DesktopLink == "" {
		return chineseLabels
	}
	return o.Labels
}

// Render writes the markdown report for records, which are expected to be
// sorted already. Records without any download link are omitted, but the
// count line reports every merged record.
func Render(w io.Writer, records []drivers.Record, opts Options) error {
	labels := opts.labels()
	bw := bufio.NewWriter(w)

	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	fmt.Fprintf(bw, "# %s\n", heading(opts.Title, opts.Product))
	fmt.Fprintf(bw, "%s: %s\n\n", labels.UpdatedAt, generated.Format(timestampLayout))

	if len(records) == 0 {
		fmt.Fprintf(bw, "%s\n", labels.NoDrivers)
		return bw.Flush()
	}

	fmt.Fprintf(bw, labels.CountFormat+"\n\n", len(records))
	bw.WriteString("---\n\n")

	for _, rec := range records {
		writeRecord(bw, rec, labels)
	}
	return bw.Flush()
}

func heading(title, product string) string {
	title = strings.TrimSpace(title)
	product = strings.TrimSpace(product)
	if product == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, product)
}

func writeRecord(bw *bufio.Writer, rec drivers.Record, labels Labels) {
	if !rec.HasDownloads() {
		return
	}

	var platforms []string
	if rec.DesktopURL != "" {
		platforms = append(platforms, labels.Desktop)
	}
	if rec.NotebookURL != "" {
		platforms = append(platforms, labels.Notebook)
	}

	fmt.Fprintf(bw, "### %s | %s | %s | %s | %s\n",
		rec.Version,
		rec.ReleaseDate,
		rec.Architecture(),
		rec.Channel,
		strings.Join(platforms, labels.PlatformJoiner),
	)

	if rec.DesktopURL != "" {
		fmt.Fprintf(bw, "> **%s**: [%s](%s)\n", labels.DesktopLink, rec.DesktopURL, rec.DesktopURL)
		if rec.NotebookURL != "" {
			bw.WriteString(">\n")
		}
	}
	if rec.NotebookURL != "" {
		fmt.Fprintf(bw, "> **%s**: [%s](%s)\n", labels.NotebookLink, rec.NotebookURL, rec.NotebookURL)
	}

	bw.WriteString("\n---\n\n")
}
