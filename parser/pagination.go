package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrInvalidPagination is returned when the last page label is not a number
var ErrInvalidPagination = errors.New("pagination does not name a last page")

// Pagination describes the pagination control of a results page
type Pagination struct {
	// Present is false when the page has no pagination control or the
	// control has no items. Such a page is the only page.
	Present bool
	// LastPage is the highest page number the control links to
	LastPage int
}

// ParsePagination reads the pagination control's list items.
// When the last item is the "next" control the last page number is the
// item before it; otherwise it is the last item itself.
func (p *Parser) ParsePagination(doc *goquery.Document) (Pagination, error) {
	control := doc.Find(p.sel.Pagination).First()
	if control.Length() == 0 {
		return Pagination{}, nil
	}

	items := control.Find(p.sel.PaginationItems)
	count := items.Length()
	if count == 0 {
		return Pagination{}, nil
	}

	label := normalizeWhitespace(items.Eq(count - 1).Text())
	if strings.EqualFold(label, p.nextLabel()) {
		if count < 2 {
			// Only a "next" control, nothing to read a number from
			return Pagination{}, nil
		}
		label = normalizeWhitespace(items.Eq(count - 2).Text())
	}

	lastPage, err := strconv.Atoi(label)
	if err != nil {
		return Pagination{}, fmt.Errorf("%w: %q", ErrInvalidPagination, label)
	}

	return Pagination{Present: true, LastPage: lastPage}, nil
}

func (p *Parser) nextLabel() string {
	if p.sel.NextLabel == "" {
		return "next"
	}
	return p.sel.NextLabel
}
