package fetcher

import (
	"fmt"

	"yellowpages-scraper/config"
)

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// FetchPage retrieves the HTML of a single URL.
	// Transport failures and non-2xx responses are returned as errors.
	FetchPage(url string) (string, error)
	// Close releases whatever the fetcher holds open
	Close() error
}

// New creates the fetcher selected by cfg.Engine
func New(cfg config.FetcherConfig) (Fetcher, error) {
	switch cfg.Engine {
	case config.EngineColly, "":
		return NewCollyFetcher(cfg.UserAgent), nil
	case config.EngineRod:
		rf, err := NewRodFetcher(cfg.BrowserDataDir, cfg.RenderWait)
		if err != nil {
			return nil, err
		}
		return rf, nil
	default:
		return nil, fmt.Errorf("unknown fetcher engine %q", cfg.Engine)
	}
}
