package config

const (
	defaultConfigPath     = "~/.config/nvdrivers/config.toml"
	defaultBaseURL        = "https://gfwsl.geforce.cn/services_toolkit/services/com/nvidia/services/AjaxDriverService.php"
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultTimeoutSeconds = 180
	defaultOSID           = 57 // Windows 10 64-bit
	defaultLanguage       = "zh-CN"
	defaultResults        = 250
	defaultProductName    = "GTX 1080"
	defaultSeriesID       = 101
	defaultFamilyID       = 815
	defaultReportPath     = "README.md"
	defaultReportTitle    = "NVIDIA 驱动历史版本列表"
	defaultHistoryPath    = "~/.local/share/nvdrivers/history.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// DefaultQueries returns the lookup presets run when the config file names
// none. Studio drivers are only listed with the WHQL filter off.
func DefaultQueries() []Query {
	return []Query{
		{Name: "Desktop DCH (GRD)", DCH: true, Channel: "game_ready", WHQL: true},
		{Name: "Desktop Standard (GRD)", DCH: false, Channel: "game_ready", WHQL: true},
		{Name: "Desktop DCH (Studio)", DCH: true, Channel: "studio", WHQL: false},
	}
}

// Default returns a Config populated with repository defaults. Queries are
// left empty and filled with DefaultQueries during normalization.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultTimeoutSeconds,
			OSID:           defaultOSID,
			Language:       defaultLanguage,
			Results:        defaultResults,
		},
		Product: Product{
			Name:     defaultProductName,
			SeriesID: defaultSeriesID,
			FamilyID: defaultFamilyID,
		},
		Report: Report{
			Path:  defaultReportPath,
			Title: defaultReportTitle,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
