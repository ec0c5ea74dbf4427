package search

import "yellowpages-scraper/parser"

// NextPage decides whether the loop continues after current.
// It moves to current+1 only while current is below the last page; a page
// without pagination is the last page.
func NextPage(current int, p parser.Pagination) (int, bool) {
	if !p.Present {
		return current, false
	}
	if current < p.LastPage {
		return current + 1, true
	}
	return current, false
}
