package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yellowpages-scraper/config"
	"yellowpages-scraper/models"
)

const fullListing = `
<div class="result" id="lid-1">
  <div class="info">
    <h2 class="n"><a class="business-name" href="/la/mip/joes-plumbing"><span>Joe's
      Plumbing</span></a></h2>
    <div class="phones phone primary">(310) 555-0101</div>
    <div class="adr">
      <div class="street-address">123 Main St</div>
      <div class="locality">Beverly Hills, CA 90210</div>
    </div>
    <div class="snippet"><p class="body"><span>Family owned since 1982.</span></p></div>
    <div class="links"><a class="track-visit-website" href="https://joesplumbing.example.com">Website</a><a href="/other">Directions</a></div>
  </div>
</div>`

const bareListing = `
<div class="result" id="lid-2">
  <div class="info">
    <h2 class="n"><a class="business-name" href="/la/mip/ace"><span>Ace Rooter</span></a></h2>
  </div>
</div>`

func newTestParser() *Parser {
	return NewParser(config.GetDefaultConfig().Selectors, models.NotFound)
}

func page(listings ...string) string {
	return `<html><body><div class="search-results organic">` + strings.Join(listings, "\n") + `</div></body></html>`
}

func TestParseHTML_ExtractsAllFields(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseHTML(page(fullListing))
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)

	assert.Equal(t, models.BusinessEntry{
		Name:          "Joe's Plumbing",
		Phone:         "(310) 555-0101",
		StreetAddress: "123 Main St",
		CityStateZip:  "Beverly Hills, CA 90210",
		Description:   "Family owned since 1982.",
		Website:       "https://joesplumbing.example.com",
	}, result.Entries[0])
	assert.False(t, result.Pagination.Present)
}

func TestParseHTML_MissingOptionalFieldsUsePlaceholder(t *testing.T) {
	p := newTestParser()

	result, err := p.ParseHTML(page(bareListing))
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)

	entry := result.Entries[0]
	assert.Equal(t, "Ace Rooter", entry.Name)
	for _, field := range []string{entry.Phone, entry.StreetAddress, entry.CityStateZip, entry.Description, entry.Website} {
		assert.Equal(t, models.NotFound, field)
	}
}

func TestParseHTML_OneEntryPerBlockInOrder(t *testing.T) {
	p := newTestParser()

	for _, n := range []int{0, 1, 5, 30} {
		listings := make([]string, 0, n)
		for i := 0; i < n; i++ {
			if i%2 == 0 {
				listings = append(listings, fullListing)
			} else {
				listings = append(listings, bareListing)
			}
		}

		result, err := p.ParseHTML(page(listings...))
		require.NoError(t, err)
		require.Len(t, result.Entries, n)

		for i, entry := range result.Entries {
			assert.NotEmpty(t, entry.Name)
			if i%2 == 0 {
				assert.Equal(t, "Joe's Plumbing", entry.Name)
			} else {
				assert.Equal(t, "Ace Rooter", entry.Name)
				assert.Equal(t, models.NotFound, entry.Phone)
			}
		}
	}
}

func TestParseHTML_MissingNameFails(t *testing.T) {
	p := newTestParser()
	nameless := `<div class="result"><div class="phones phone primary">555</div></div>`

	_, err := p.ParseHTML(page(fullListing, nameless))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingName))
	assert.Contains(t, err.Error(), "listing 2")
}

func TestParseHTML_WebsiteWithoutHref(t *testing.T) {
	p := newTestParser()
	listing := `<div class="result"><a class="business-name"><span>No Link Co</span></a><div class="links"><a>Website</a></div></div>`

	result, err := p.ParseHTML(page(listing))
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, models.NotFound, result.Entries[0].Website)
}

func TestParseHTML_WebsiteWhitespaceCollapsed(t *testing.T) {
	p := newTestParser()
	listing := `<div class="result"><a class="business-name"><span>Wrapped Co</span></a>` +
		"<div class=\"links\"><a href=\"  https://wrapped.example.com/a\n  b  \">Website</a></div></div>"

	result, err := p.ParseHTML(page(listing))
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "https://wrapped.example.com/a b", result.Entries[0].Website)
	assert.NotContains(t, result.Entries[0].Website, "\n")
}

func TestParseHTML_SelectorGroup(t *testing.T) {
	sel := config.GetDefaultConfig().Selectors
	sel.Phone = ".phones.phone.primary, .phone-alt"
	p := NewParser(sel, models.NotFound)

	listing := `<div class="result"><a class="business-name"><span>Alt Co</span></a><div class="phone-alt">555-0199</div></div>`
	result, err := p.ParseHTML(page(listing))
	require.NoError(t, err)
	assert.Equal(t, "555-0199", result.Entries[0].Phone)
}

func TestParseHTML_CustomPlaceholder(t *testing.T) {
	p := NewParser(config.GetDefaultConfig().Selectors, "n/a")

	result, err := p.ParseHTML(page(bareListing))
	require.NoError(t, err)
	assert.Equal(t, "n/a", result.Entries[0].Phone)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected Pagination
		wantErr  bool
	}{
		{
			name:     "no pagination control",
			html:     `<div class="search-results"></div>`,
			expected: Pagination{},
		},
		{
			name:     "empty pagination control",
			html:     `<div class="content"><div class="pagination"></div></div>`,
			expected: Pagination{},
		},
		{
			name:     "control without list items",
			html:     `<div class="content"><div class="pagination"><p>Showing 1-30</p></div></div>`,
			expected: Pagination{},
		},
		{
			name: "last item is next",
			html: `<div class="content"><div class="pagination"><ul>
				<li><span>1</span></li><li><a href="?page=2">2</a></li><li><a href="?page=3">3</a></li>
				<li><a class="next" href="?page=2">Next</a></li></ul></div></div>`,
			expected: Pagination{Present: true, LastPage: 3},
		},
		{
			name: "last item is a number",
			html: `<div class="content"><div class="pagination"><ul>
				<li><a href="?page=1">1</a></li><li><a href="?page=2">2</a></li><li><span> 3 </span></li>
				</ul></div></div>`,
			expected: Pagination{Present: true, LastPage: 3},
		},
		{
			name:     "next label is case-insensitive",
			html:     `<div class="content"><div class="pagination"><ul><li>1</li><li>2</li><li>NEXT</li></ul></div></div>`,
			expected: Pagination{Present: true, LastPage: 2},
		},
		{
			name:     "single page",
			html:     `<div class="content"><div class="pagination"><ul><li><span>1</span></li></ul></div></div>`,
			expected: Pagination{Present: true, LastPage: 1},
		},
		{
			name:     "only a next control",
			html:     `<div class="content"><div class="pagination"><ul><li>Next</li></ul></div></div>`,
			expected: Pagination{},
		},
		{
			name:    "non-numeric last label",
			html:    `<div class="content"><div class="pagination"><ul><li>1</li><li>...</li></ul></div></div>`,
			wantErr: true,
		},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			got, err := p.ParsePagination(doc)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidPagination))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"regular spaces", "Joe's  Plumbing", "Joe's Plumbing"},
		{"non-breaking space", "Suite\u00A0200", "Suite 200"},
		{"mixed whitespace", "\n\tBeverly Hills,\n CA ", "Beverly Hills, CA"},
		{"already normalized", "123 Main St", "123 Main St"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeWhitespace(tt.input))
		})
	}
}
