package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"

	"yellowpages-scraper/models"
)

// Engines supported by the fetcher package
const (
	EngineColly = "colly"
	EngineRod   = "rod"
)

// Config represents the scraper configuration
type Config struct {
	Search      SearchConfig   `yaml:"search"`
	Fetcher     FetcherConfig  `yaml:"fetcher"`
	Selectors   SelectorConfig `yaml:"selectors"`
	Placeholder string         `yaml:"placeholder"`
	Filters     FilterConfig   `yaml:"filters"`
	Output      OutputConfig   `yaml:"output"`
	Database    DatabaseConfig `yaml:"database"`
	Sheets      SheetsConfig   `yaml:"sheets"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Log         LogConfig      `yaml:"log"`
}

// SearchConfig describes the search endpoint and how far to walk it
type SearchConfig struct {
	BaseURL       string `yaml:"base_url"`
	TermParam     string `yaml:"term_param"`
	LocationParam string `yaml:"location_param"`
	PageParam     string `yaml:"page_param"`
	// MaxPages stops the loop after this many pages. 0 means no limit.
	MaxPages int `yaml:"max_pages"`
}

// FetcherConfig selects and tunes the page fetcher
type FetcherConfig struct {
	Engine    string `yaml:"engine"`
	UserAgent string `yaml:"user_agent"`
	// RenderWait is how long the rod engine lets scripts run after load
	RenderWait time.Duration `yaml:"render_wait"`
	// BrowserDataDir is the rod user data directory (BOT_DATA_DIR overrides)
	BrowserDataDir string `yaml:"browser_data_dir"`
}

// SelectorConfig holds the CSS selectors used by the parser
type SelectorConfig struct {
	Result          string `yaml:"result"`
	Name            string `yaml:"name"`
	Phone           string `yaml:"phone"`
	StreetAddress   string `yaml:"street_address"`
	Locality        string `yaml:"locality"`
	Description     string `yaml:"description"`
	Website         string `yaml:"website"`
	Pagination      string `yaml:"pagination"`
	PaginationItems string `yaml:"pagination_items"`
	NextLabel       string `yaml:"next_label"`
}

// FilterConfig represents the filter criteria applied before export
type FilterConfig struct {
	RequirePhone   bool `yaml:"require_phone"`
	RequireWebsite bool `yaml:"require_website"`
	Dedupe         bool `yaml:"dedupe"`
}

// OutputConfig sets a fixed export target, skipping the save prompts
type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// DatabaseConfig enables the Postgres store when URL is set
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// SheetsConfig enables the Google Sheets writer when SpreadsheetURL is set
type SheetsConfig struct {
	SpreadsheetURL  string `yaml:"spreadsheet_url"`
	CredentialsPath string `yaml:"credentials_path"`
}

// TelegramConfig enables the notifier when both fields are set
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// LogConfig controls log verbosity
type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a configuration targeting yellowpages.com
func GetDefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			BaseURL:       "https://www.yellowpages.com/search",
			TermParam:     "search_terms",
			LocationParam: "geo_location_terms",
			PageParam:     "page",
		},
		Fetcher: FetcherConfig{
			Engine:         EngineColly,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RenderWait:     3 * time.Second,
			BrowserDataDir: "/tmp/yp-data",
		},
		Selectors: SelectorConfig{
			Result:          "div .result",
			Name:            ".business-name > span",
			Phone:           ".phones.phone.primary",
			StreetAddress:   ".street-address",
			Locality:        ".locality",
			Description:     ".snippet > p > span",
			Website:         ".links > a",
			Pagination:      "div .pagination",
			PaginationItems: "ul > li",
			NextLabel:       "next",
		},
		Placeholder: models.NotFound,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("YP_SPREADSHEET_URL"); v != "" {
		c.Sheets.SpreadsheetURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		c.Telegram.ChatID = chatID
	}
	if v := os.Getenv("YP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("BOT_DATA_DIR"); v != "" {
		c.Fetcher.BrowserDataDir = v
	}
	return nil
}

// Validate checks the configuration before any request is made
func (c *Config) Validate() error {
	switch c.Fetcher.Engine {
	case EngineColly, EngineRod:
	default:
		return fmt.Errorf("unknown fetcher engine %q (want %q or %q)", c.Fetcher.Engine, EngineColly, EngineRod)
	}

	u, err := url.Parse(c.Search.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid search base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("search base_url must be http or https, got %q", c.Search.BaseURL)
	}
	if c.Search.TermParam == "" || c.Search.LocationParam == "" || c.Search.PageParam == "" {
		return fmt.Errorf("search parameter names must not be empty")
	}
	if c.Search.MaxPages < 0 {
		return fmt.Errorf("search max_pages must not be negative")
	}

	selectors := map[string]string{
		"result":           c.Selectors.Result,
		"name":             c.Selectors.Name,
		"phone":            c.Selectors.Phone,
		"street_address":   c.Selectors.StreetAddress,
		"locality":         c.Selectors.Locality,
		"description":      c.Selectors.Description,
		"website":          c.Selectors.Website,
		"pagination":       c.Selectors.Pagination,
		"pagination_items": c.Selectors.PaginationItems,
	}
	for name, sel := range selectors {
		if _, err := cascadia.ParseGroup(sel); err != nil {
			return fmt.Errorf("invalid %s selector %q: %w", name, sel, err)
		}
	}

	return nil
}

// SheetsEnabled reports whether results should go to Google Sheets
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetURL != ""
}

// TelegramEnabled reports whether a completion notice should be sent
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}
