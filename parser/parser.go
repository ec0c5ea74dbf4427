package parser

import (
	"errors"
	"fmt"
	"strings"

	"yellowpages-scraper/config"
	"yellowpages-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// ErrMissingName is returned when a listing block has no business name node
var ErrMissingName = errors.New("listing has no business name")

// Page is everything extracted from one search results page
type Page struct {
	Entries    []models.BusinessEntry
	Pagination Pagination
}

// Parser extracts business entries and pagination from search result HTML
type Parser struct {
	sel         config.SelectorConfig
	placeholder string
}

// NewParser creates a new Parser instance
func NewParser(sel config.SelectorConfig, placeholder string) *Parser {
	if placeholder == "" {
		placeholder = models.NotFound
	}
	return &Parser{
		sel:         sel,
		placeholder: placeholder,
	}
}

// ParseHTML extracts entries and pagination from HTML content
func (p *Parser) ParseHTML(htmlContent string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	entries, err := p.ParseEntries(doc)
	if err != nil {
		return nil, err
	}

	pagination, err := p.ParsePagination(doc)
	if err != nil {
		return nil, err
	}

	return &Page{
		Entries:    entries,
		Pagination: pagination,
	}, nil
}

// ParseEntries returns one entry per listing block, in document order
func (p *Parser) ParseEntries(doc *goquery.Document) ([]models.BusinessEntry, error) {
	blocks := doc.Find(p.sel.Result)
	entries := make([]models.BusinessEntry, 0, blocks.Length())

	var parseErr error
	blocks.EachWithBreak(func(i int, s *goquery.Selection) bool {
		entry, err := p.extractEntry(s)
		if err != nil {
			parseErr = fmt.Errorf("listing %d: %w", i+1, err)
			return false
		}
		entries = append(entries, entry)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return entries, nil
}

// extractEntry extracts a single entry from a listing block
func (p *Parser) extractEntry(s *goquery.Selection) (models.BusinessEntry, error) {
	nameNode := s.Find(p.sel.Name).First()
	if nameNode.Length() == 0 {
		return models.BusinessEntry{}, ErrMissingName
	}

	return models.BusinessEntry{
		Name:          normalizeWhitespace(nameNode.Text()),
		Phone:         p.textOr(s, p.sel.Phone),
		StreetAddress: p.textOr(s, p.sel.StreetAddress),
		CityStateZip:  p.textOr(s, p.sel.Locality),
		Description:   p.textOr(s, p.sel.Description),
		Website:       p.attrOr(s, p.sel.Website, "href"),
	}, nil
}

// textOr returns the text of the first match, or the placeholder when nothing matches
func (p *Parser) textOr(s *goquery.Selection, selector string) string {
	node := s.Find(selector).First()
	if node.Length() == 0 {
		return p.placeholder
	}
	return normalizeWhitespace(node.Text())
}

// attrOr returns an attribute of the first match, or the placeholder when
// nothing matches or the attribute is missing
func (p *Parser) attrOr(s *goquery.Selection, selector, attr string) string {
	node := s.Find(selector).First()
	if node.Length() == 0 {
		return p.placeholder
	}
	value, ok := node.Attr(attr)
	if !ok {
		return p.placeholder
	}
	return normalizeWhitespace(value)
}
