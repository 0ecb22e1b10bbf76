package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"nvdrivers/internal/config"
	"nvdrivers/internal/drivers"
	"nvdrivers/internal/history"
	"nvdrivers/internal/logging"
	"nvdrivers/internal/nvidia"
	"nvdrivers/internal/report"
)

// Summary counts what a collection pass did.
type Summary struct {
	Queries int
	Failed  int
	Entries int
	Records int
	Sorted  bool
}

// Result describes a completed run.
type Result struct {
	RunID      string
	Summary    Summary
	Records    []drivers.Record
	ReportPath string
	Bytes      int64
	NewKeys    []drivers.Key
}

// Aggregator wires the lookup client to the report writer.
type Aggregator struct {
	cfg    *config.Config
	client nvidia.Lookuper
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides the time source used for the report header and
// history timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New constructs an Aggregator. A nil logger discards output.
func New(cfg *config.Config, client nvidia.Lookuper, logger *slog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		cfg:    cfg,
		client: client,
		logger: logging.NewComponentLogger(logger, "aggregator"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect looks up every configured query, merges the results and sorts
// them newest first. It never fails; lookup errors are logged and counted.
func (a *Aggregator) Collect(ctx context.Context) ([]drivers.Record, Summary) {
	ctx = ensureRunID(ctx)
	logger := logging.WithContext(ctx, a.logger)

	summary := Summary{Queries: len(a.cfg.Queries)}
	merger := drivers.NewMerger()
	for _, q := range a.cfg.Queries {
		batch, ok := a.fetch(ctx, logger, q)
		if !ok {
			summary.Failed++
		}
		summary.Entries += len(batch.Entries)
		merger.Add(batch)
	}

	records := merger.Records()
	summary.Records = len(records)
	logger.Info(
		"merged driver entries",
		logging.String(logging.FieldEventType, "merge_complete"),
		logging.Int("entries", summary.Entries),
		logging.Int("records", summary.Records),
	)

	summary.Sorted = drivers.SortByReleaseDate(records)
	if !summary.Sorted {
		logging.WarnWithContext(logger, "release dates could not be parsed; keeping merge order",
			"sort_fallback",
			logging.String(logging.FieldErrorHint, "inspect ReleaseDateTime values returned by the service"),
			logging.String(logging.FieldImpact, "report is not ordered by date"),
		)
	}
	return records, summary
}

func (a *Aggregator) fetch(ctx context.Context, logger *slog.Logger, q config.Query) (drivers.Batch, bool) {
	logger = logger.With(logging.String(logging.FieldQuery, q.Name))

	channel, err := drivers.ParseChannel(q.Channel)
	if err != nil {
		logging.WarnWithContext(logger, "skipping query with unknown channel",
			"query_invalid",
			logging.Error(err),
			logging.String(logging.FieldImpact, "query contributes no drivers"),
		)
		return drivers.Batch{DCH: q.DCH}, false
	}
	batch := drivers.Batch{DCH: q.DCH, Channel: channel}

	logger.Info("fetching drivers",
		logging.String(logging.FieldEventType, "fetch_start"),
		logging.Bool("dch", q.DCH),
		logging.String("channel", channel.String()),
		logging.Bool("whql", q.WHQL),
	)

	start := time.Now()
	resp, err := a.client.Lookup(ctx, a.lookupQuery(q, channel))
	if err != nil {
		logging.WarnWithContext(logger, "driver lookup failed",
			"fetch_failed",
			logging.Error(err),
			logging.Duration("elapsed", time.Since(start)),
			logging.String(logging.FieldErrorHint, "check network access to the lookup endpoint"),
			logging.String(logging.FieldImpact, "query contributes no drivers"),
		)
		return batch, false
	}

	batch.Entries = entriesFromResponse(resp)
	logger.Info("fetched drivers",
		logging.String(logging.FieldEventType, "fetch_complete"),
		logging.Int("items", len(batch.Entries)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return batch, true
}

func (a *Aggregator) lookupQuery(q config.Query, channel drivers.Channel) nvidia.Query {
	return nvidia.Query{
		Name:            q.Name,
		ProductSeriesID: a.cfg.Product.SeriesID,
		ProductFamilyID: a.cfg.Product.FamilyID,
		OSID:            a.cfg.API.OSID,
		LanguageCode:    a.cfg.API.LanguageCode,
		DCH:             q.DCH,
		Studio:          channel == drivers.ChannelStudio,
		WHQL:            q.WHQL,
		Results:         a.cfg.API.Results,
	}
}

func entriesFromResponse(resp *nvidia.LookupResponse) []drivers.Entry {
	if resp == nil {
		return nil
	}
	entries := make([]drivers.Entry, 0, len(resp.IDS))
	for _, item := range resp.IDS {
		info := item.DownloadInfo
		entries = append(entries, drivers.Entry{
			Version:     info.Version,
			ReleaseDate: info.ReleaseDateTime,
			DownloadURL: info.DownloadURL,
		})
	}
	return entries
}

// Run collects drivers, writes the report and records history when enabled.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, a.logger)
	start := a.now()

	records, summary := a.Collect(ctx)
	result := &Result{
		RunID:      runID,
		Summary:    summary,
		Records:    records,
		ReportPath: a.cfg.Report.Path,
	}

	written, err := report.WriteFile(a.cfg.Report.Path, records, report.Options{
		Title:       a.cfg.Report.Title,
		Product:     a.cfg.Product.Name,
		GeneratedAt: start,
		Labels:      report.LabelsFor(a.cfg.API.Language),
	})
	if err != nil {
		logging.ErrorWithContext(logger, "report write failed", "report_failed",
			logging.String("path", a.cfg.Report.Path),
			logging.Error(err),
		)
		return result, fmt.Errorf("write report: %w", err)
	}
	result.Bytes = written
	logger.Info("report saved",
		logging.String(logging.FieldEventType, "report_saved"),
		logging.String("path", a.cfg.Report.Path),
		logging.String("size", humanize.Bytes(uint64(written))),
		logging.Int("records", summary.Records),
	)

	if a.cfg.History.Enabled {
		added, err := a.recordHistory(ctx, records, start)
		if err != nil {
			return result, err
		}
		result.NewKeys = added
		logger.Info("history updated",
			logging.String(logging.FieldEventType, "history_updated"),
			logging.Int("new_versions", len(added)),
		)
	}
	return result, nil
}

func (a *Aggregator) recordHistory(ctx context.Context, records []drivers.Record, now time.Time) (added []drivers.Key, err error) {
	store, err := history.Open(a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	added, err = store.Record(ctx, records, now)
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	return added, nil
}

func ensureRunID(ctx context.Context) context.Context {
	if _, ok := logging.RunIDFromContext(ctx); ok {
		return ctx
	}
	return logging.WithRunID(ctx, uuid.NewString())
}
