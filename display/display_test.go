package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"yellowpages-scraper/models"
	"yellowpages-scraper/search"
)

func TestFormatEntry(t *testing.T) {
	out := FormatEntry(models.BusinessEntry{
		Name:          "Joe's Plumbing",
		Phone:         "(310) 555-0101",
		StreetAddress: "123 Main St",
		CityStateZip:  "Beverly Hills, CA 90210",
		Description:   models.NotFound,
		Website:       "https://joesplumbing.example.com",
	})

	for _, want := range []string{
		"Name:", "Joe's Plumbing",
		"Phone:", "(310) 555-0101",
		"Street:", "123 Main St",
		"City:", "Beverly Hills, CA 90210",
		"Description:", models.NotFound,
		"Website:", "https://joesplumbing.example.com",
		separator,
	} {
		assert.Contains(t, out, want)
	}

	// label order follows the record layout
	assert.Less(t, strings.Index(out, "Name:"), strings.Index(out, "Phone:"))
	assert.Less(t, strings.Index(out, "Description:"), strings.Index(out, "Website:"))
}

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	PrintEntries(&buf, []models.BusinessEntry{{Name: "A"}, {Name: "B"}})
	assert.Equal(t, 2, strings.Count(buf.String(), separator))
}

func TestSummary(t *testing.T) {
	result := &search.Result{
		Query:   models.SearchQuery{Term: "plumber", ZipCode: "90210"},
		Entries: make([]models.BusinessEntry, 7),
		Pages:   2,
	}
	assert.Equal(t, `Found 7 listings for "plumber" in 90210 across 2 page(s)`, Summary(result))

	result.Truncated = true
	result.LastPage = 9
	assert.Contains(t, Summary(result), "site reports 9")
}
