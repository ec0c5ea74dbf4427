package fetcher

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(userAgent string) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		// The same results page may be requested again in a later search
		colly.AllowURLRevisit(),
	)

	return &CollyFetcher{
		collector: c,
	}
}

// FetchPage implements the Fetcher interface.
// Each call works on a clone so callbacks never pile up on the shared collector.
func (cf *CollyFetcher) FetchPage(url string) (string, error) {
	c := cf.collector.Clone()

	var body string
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		log.Debug("fetched page", "url", r.Request.URL.String(), "status", r.StatusCode, "bytes", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("request %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("failed to visit URL: %w", err)
	}
	c.Wait()

	if fetchErr != nil {
		return "", fetchErr
	}
	return body, nil
}

// Close implements the Fetcher interface; colly holds nothing open
func (cf *CollyFetcher) Close() error {
	return nil
}
