package testsupport

import (
	"path/filepath"
	"testing"

	"nvdrivers/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a normalized config whose report and history live in a
// unique temp directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.API.LanguageCode = 2052
	cfgVal.API.TimeoutSeconds = 5
	cfgVal.Queries = config.DefaultQueries()
	cfgVal.Report.Path = filepath.Join(base, "README.md")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")

	builder := &configBuilder{cfg: &cfgVal}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLookupURL points the config at a test lookup endpoint.
func WithLookupURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.BaseURL = url
	}
}

// WithHistory enables the history store.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithQueries replaces the default lookup presets.
func WithQueries(queries ...config.Query) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Queries = queries
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Report.Path)
}
