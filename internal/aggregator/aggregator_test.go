package aggregator_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nvdrivers/internal/aggregator"
	"nvdrivers/internal/config"
	"nvdrivers/internal/drivers"
	"nvdrivers/internal/nvidia"
	"nvdrivers/internal/testsupport"
)

type stubLookuper struct {
	calls     []nvidia.Query
	responses map[string]*nvidia.LookupResponse
	errs      map[string]error
}

func (s *stubLookuper) Lookup(_ context.Context, q nvidia.Query) (*nvidia.LookupResponse, error) {
	s.calls = append(s.calls, q)
	if err := s.errs[q.Name]; err != nil {
		return nil, err
	}
	return s.responses[q.Name], nil
}

func response(rows ...nvidia.Entry) *nvidia.LookupResponse {
	resp := testsupport.Response(rows...)
	return &resp
}

var fixedClock = aggregator.WithClock(func() time.Time {
	return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
})

func TestCollectBuildsQueriesFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stub := &stubLookuper{}

	_, summary := aggregator.New(cfg, stub, nil).Collect(context.Background())

	if summary.Queries != 3 || summary.Failed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(stub.calls) != 3 {
		t.Fatalf("expected 3 lookups, got %d", len(stub.calls))
	}
	want := []struct {
		dch, studio, whql bool
	}{
		{true, false, true},
		{false, false, true},
		{true, true, false},
	}
	for i, q := range stub.calls {
		if q.DCH != want[i].dch || q.Studio != want[i].studio || q.WHQL != want[i].whql {
			t.Fatalf("query %d = %+v, want %+v", i, q, want[i])
		}
		if q.ProductSeriesID != 101 || q.ProductFamilyID != 815 || q.OSID != 57 || q.LanguageCode != 2052 || q.Results != 250 {
			t.Fatalf("query %d carries unexpected product settings: %+v", i, q)
		}
	}
}

func TestCollectMergesAndSorts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	queries := config.DefaultQueries()
	stub := &stubLookuper{responses: map[string]*nvidia.LookupResponse{
		queries[0].Name: response(
			testsupport.Driver("536.23", "2023-06-14", "https://dl/536.23-desktop-win10-win11-64bit-international-dch-whql.exe"),
			testsupport.Driver("546.33", "2023-12-12", "https://dl/546.33-desktop-win10-win11-64bit-international-dch-whql.exe"),
		),
		queries[1].Name: response(
			testsupport.Driver("536.23", "2023-06-14", "https://dl/536.23-desktop-win10-win11-64bit-international-whql.exe"),
		),
		queries[2].Name: response(
			testsupport.Driver("536.23", "2023-06-14", "https://dl/536.23-desktop-win10-win11-64bit-international-nsd-dch-whql.exe"),
			testsupport.Driver("536.23", "2023-06-14", "https://dl/duplicate.exe"),
		),
	}}

	records, summary := aggregator.New(cfg, stub, nil).Collect(context.Background())

	if summary.Entries != 5 || summary.Records != 4 || !summary.Sorted {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if records[0].Version != "546.33" {
		t.Fatalf("expected newest release first, got %s", records[0].Version)
	}
	for _, rec := range records {
		if rec.Channel == drivers.ChannelStudio {
			if !strings.Contains(rec.DesktopURL, "nsd-dch") {
				t.Fatalf("expected first studio URL to win, got %q", rec.DesktopURL)
			}
			if !strings.Contains(rec.NotebookURL, "-notebook-") {
				t.Fatalf("expected derived notebook URL, got %q", rec.NotebookURL)
			}
		}
	}
}

func TestCollectContinuesAfterLookupFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	queries := config.DefaultQueries()
	stub := &stubLookuper{
		responses: map[string]*nvidia.LookupResponse{
			queries[1].Name: response(testsupport.Driver("391.35", "2018-03-27", "https://dl/391.35-desktop-win10-64bit-international-whql.exe")),
		},
		errs: map[string]error{
			queries[0].Name: errors.New("connection reset"),
		},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	records, summary := aggregator.New(cfg, stub, logger).Collect(context.Background())

	if summary.Failed != 1 || summary.Records != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(records) != 1 || records[0].Version != "391.35" {
		t.Fatalf("unexpected records %+v", records)
	}
	out := logs.String()
	if !strings.Contains(out, `"event_type":"fetch_failed"`) || !strings.Contains(out, "connection reset") {
		t.Fatalf("expected fetch failure to be logged, got %s", out)
	}
	if !strings.Contains(out, `"run_id":"`) {
		t.Fatalf("expected run id in logs, got %s", out)
	}
}

func TestCollectReportsSortFallback(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithQueries(config.Query{Name: "only", DCH: true, Channel: "game_ready", WHQL: true}))
	stub := &stubLookuper{responses: map[string]*nvidia.LookupResponse{
		"only": response(
			testsupport.Driver("1.0", "2020-01-01", "https://dl/a.exe"),
			testsupport.Driver("2.0", "unknown", "https://dl/b.exe"),
		),
	}}

	records, summary := aggregator.New(cfg, stub, nil).Collect(context.Background())
	if summary.Sorted {
		t.Fatal("expected sort fallback")
	}
	if records[0].Version != "1.0" || records[1].Version != "2.0" {
		t.Fatalf("expected merge order to be kept, got %+v", records)
	}
}

func TestRunWritesReport(t *testing.T) {
	srv := testsupport.NewLookupServer(t, map[string]nvidia.LookupResponse{
		testsupport.LookupKey(true, false): testsupport.Response(
			testsupport.Driver("536.23", "2023-06-14", "https://dl/536.23-desktop-win10-win11-64bit-international-dch-whql.exe"),
		),
		testsupport.LookupKey(true, true): testsupport.Response(),
	})
	cfg := testsupport.NewConfig(t, testsupport.WithLookupURL(srv.URL))
	client, err := nvidia.New(cfg.API.BaseURL, nvidia.WithTimeout(cfg.RequestTimeout()))
	if err != nil {
		t.Fatalf("nvidia.New: %v", err)
	}

	result, err := aggregator.New(cfg, client, nil, fixedClock).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}
	if result.Summary.Failed != 1 {
		t.Fatalf("expected the standard query to fail against the fixture, got %+v", result.Summary)
	}
	if len(srv.Requests()) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(srv.Requests()))
	}

	data, err := os.ReadFile(cfg.Report.Path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if int64(len(data)) != result.Bytes {
		t.Fatalf("reported %d bytes, file has %d", result.Bytes, len(data))
	}
	text := string(data)
	for _, want := range []string{
		"# NVIDIA 驱动历史版本列表 (GTX 1080)\n",
		"更新时间: 2024-05-01 08:00:00\n",
		"共找到 1 个版本",
		"### 536.23 | 2023-06-14 | DCH | Game Ready | 台式机 & 笔记本\n",
		"536.23-notebook-win10-win11-64bit-international-dch-whql.exe",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in report:\n%s", want, text)
		}
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithHistory(),
		testsupport.WithQueries(config.Query{Name: "dch", DCH: true, Channel: "game_ready", WHQL: true}),
	)
	stub := &stubLookuper{responses: map[string]*nvidia.LookupResponse{
		"dch": response(testsupport.Driver("551.23", "2024-01-24", "https://dl/551.23-desktop-win10-win11-64bit-international-dch-whql.exe")),
	}}
	agg := aggregator.New(cfg, stub, nil, fixedClock)

	first, err := agg.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if len(first.NewKeys) != 1 {
		t.Fatalf("expected one new version, got %v", first.NewKeys)
	}
	second, err := agg.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(second.NewKeys) != 0 {
		t.Fatalf("expected no new versions on rerun, got %v", second.NewKeys)
	}

	entries, err := testsupport.MustOpenHistory(t, cfg).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Version != "551.23" {
		t.Fatalf("unexpected history %+v", entries)
	}
}

func TestRunReturnsReportErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithQueries())
	blocker := filepath.Join(testsupport.BaseDir(cfg), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg.Report.Path = filepath.Join(blocker, "README.md")

	if _, err := aggregator.New(cfg, &stubLookuper{}, nil).Run(context.Background()); err == nil {
		t.Fatal("expected report write error")
	}
}
