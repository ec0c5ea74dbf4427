package search

import (
	"fmt"

	"github.com/charmbracelet/log"

	"yellowpages-scraper/fetcher"
	"yellowpages-scraper/models"
	"yellowpages-scraper/parser"
	"yellowpages-scraper/searchurl"
)

// Result holds everything a search collected
type Result struct {
	Query     models.SearchQuery
	FirstURL  string
	Entries   []models.BusinessEntry
	Pages     int
	LastPage  int
	Truncated bool // stopped by the page cap rather than by pagination
}

// Searcher walks the result pages of one search endpoint
type Searcher struct {
	fetcher  fetcher.Fetcher
	parser   *parser.Parser
	urls     *searchurl.Builder
	maxPages int

	// OnFetch is called before each page request
	OnFetch func(page int, url string)
	// OnPage is called after a page has been parsed
	OnPage func(page int, entries []models.BusinessEntry)
}

// NewSearcher creates a Searcher. maxPages of 0 means no limit.
func NewSearcher(f fetcher.Fetcher, p *parser.Parser, urls *searchurl.Builder, maxPages int) *Searcher {
	return &Searcher{
		fetcher:  f,
		parser:   p,
		urls:     urls,
		maxPages: maxPages,
	}
}

// Run fetches, parses and paginates until the site reports no further pages
func (s *Searcher) Run(query models.SearchQuery) (*Result, error) {
	result := &Result{
		Query:   query,
		Entries: []models.BusinessEntry{},
	}

	pageNumber := 1
	for {
		url, err := s.urls.Build(query.Term, query.ZipCode, pageNumber)
		if err != nil {
			return result, fmt.Errorf("failed to build URL for page %d: %w", pageNumber, err)
		}
		if pageNumber == 1 {
			result.FirstURL = url
		}

		if s.OnFetch != nil {
			s.OnFetch(pageNumber, url)
		}

		html, err := s.fetcher.FetchPage(url)
		if err != nil {
			return result, fmt.Errorf("failed to fetch page %d: %w", pageNumber, err)
		}

		page, err := s.parser.ParseHTML(html)
		if err != nil {
			return result, fmt.Errorf("failed to parse page %d: %w", pageNumber, err)
		}

		result.Entries = append(result.Entries, page.Entries...)
		result.Pages = pageNumber
		result.LastPage = page.Pagination.LastPage
		log.Debug("parsed page", "page", pageNumber, "entries", len(page.Entries), "last_page", page.Pagination.LastPage)

		if s.OnPage != nil {
			s.OnPage(pageNumber, page.Entries)
		}

		next, ok := NextPage(pageNumber, page.Pagination)
		if !ok {
			break
		}
		if s.maxPages > 0 && pageNumber >= s.maxPages {
			log.Info("page limit reached", "max_pages", s.maxPages, "last_page", page.Pagination.LastPage)
			result.Truncated = true
			break
		}
		pageNumber = next
	}

	return result, nil
}
