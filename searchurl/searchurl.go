package searchurl

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"yellowpages-scraper/config"
)

// ErrInvalidPage is returned for page numbers below 1
var ErrInvalidPage = errors.New("page number must be at least 1")

// Builder builds search result URLs for one endpoint
type Builder struct {
	baseURL       string
	termParam     string
	locationParam string
	pageParam     string
}

// NewBuilder creates a Builder from the search configuration
func NewBuilder(cfg config.SearchConfig) (*Builder, error) {
	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	// The builder owns the query string
	parsedURL.RawQuery = ""
	parsedURL.Fragment = ""
	parsedURL.RawFragment = ""

	return &Builder{
		baseURL:       parsedURL.String(),
		termParam:     cfg.TermParam,
		locationParam: cfg.LocationParam,
		pageParam:     cfg.PageParam,
	}, nil
}

// Build returns the URL of the given results page.
// Parameters keep a fixed order (term, location, page) and the page
// parameter is only present past the first page.
func (b *Builder) Build(term, zipCode string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}

	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteString("?")
	sb.WriteString(b.termParam)
	sb.WriteString("=")
	sb.WriteString(escape(term))
	sb.WriteString("&")
	sb.WriteString(b.locationParam)
	sb.WriteString("=")
	sb.WriteString(escape(strings.TrimSpace(zipCode)))

	if page > 1 {
		sb.WriteString("&")
		sb.WriteString(b.pageParam)
		sb.WriteString("=")
		sb.WriteString(strconv.Itoa(page))
	}

	return sb.String(), nil
}

// escape percent-encodes a query value with spaces as %20
func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
