package config

import (
	"fmt"
	"os"
	"strings"

	"nvdrivers/internal/nvidia"
)

func (c *Config) normalize() error {
	if err := c.normalizeAPI(); err != nil {
		return err
	}
	c.normalizeProduct()
	c.normalizeQueries()
	if err := c.normalizeReport(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAPI() error {
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	c.API.UserAgent = strings.TrimSpace(c.API.UserAgent)
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaultUserAgent
	}
	if value, ok := os.LookupEnv("NVDRIVERS_LANGUAGE"); ok && strings.TrimSpace(value) != "" {
		c.API.Language = value
	}
	c.API.Language = strings.TrimSpace(c.API.Language)
	if c.API.Language == "" {
		c.API.Language = defaultLanguage
	}
	code, err := nvidia.LanguageCode(c.API.Language)
	if err != nil {
		return fmt.Errorf("api.language: %w", err)
	}
	c.API.LanguageCode = code
	return nil
}

func (c *Config) normalizeProduct() {
	c.Product.Name = strings.TrimSpace(c.Product.Name)
}

func (c *Config) normalizeQueries() {
	if len(c.Queries) == 0 {
		c.Queries = DefaultQueries()
		return
	}
	for i := range c.Queries {
		q := &c.Queries[i]
		q.Name = strings.TrimSpace(q.Name)
		q.Channel = strings.ToLower(strings.TrimSpace(q.Channel))
		if q.Channel == "" {
			q.Channel = "game_ready"
		}
	}
}

func (c *Config) normalizeReport() error {
	if value, ok := os.LookupEnv("NVDRIVERS_OUTPUT"); ok && strings.TrimSpace(value) != "" {
		c.Report.Path = value
	}
	if strings.TrimSpace(c.Report.Path) == "" {
		c.Report.Path = defaultReportPath
	}
	var err error
	if c.Report.Path, err = expandPath(strings.TrimSpace(c.Report.Path)); err != nil {
		return fmt.Errorf("report.path: %w", err)
	}
	c.Report.Title = strings.TrimSpace(c.Report.Title)
	if c.Report.Title == "" {
		c.Report.Title = defaultReportTitle
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// SetReportPath overrides the report path, applying the same expansion as
// the config file value.
func (c *Config) SetReportPath(path string) error {
	expanded, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("report path: %w", err)
	}
	if expanded == "" {
		return fmt.Errorf("report path must not be empty")
	}
	c.Report.Path = expanded
	return nil
}
