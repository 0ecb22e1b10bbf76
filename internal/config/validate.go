package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"nvdrivers/internal/drivers"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateProduct(); err != nil {
		return err
	}
	if err := c.validateQueries(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"api.timeout_seconds": c.API.TimeoutSeconds,
		"api.os_id":           c.API.OSID,
		"api.results":         c.API.Results,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProduct() error {
	return ensurePositiveMap(map[string]int{
		"product.series_id": c.Product.SeriesID,
		"product.family_id": c.Product.FamilyID,
	})
}

func (c *Config) validateQueries() error {
	if len(c.Queries) == 0 {
		return errors.New("at least one [[queries]] entry is required")
	}
	for i, q := range c.Queries {
		if _, err := drivers.ParseChannel(q.Channel); err != nil {
			return fmt.Errorf("queries[%d].channel: %w", i, err)
		}
	}
	return nil
}

func (c *Config) validateReport() error {
	if strings.TrimSpace(c.Report.Path) == "" {
		return errors.New("report.path must be set")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
