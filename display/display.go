package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"yellowpages-scraper/models"
	"yellowpages-scraper/search"
)

var (
	labelStyle     = lipgloss.NewStyle().Bold(true)
	nameStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const separator = "======================================="

// FormatEntry renders one entry the way it is printed while searching
func FormatEntry(e models.BusinessEntry) string {
	var sb strings.Builder
	writeField(&sb, "Name:", nameStyle.Render(e.Name))
	writeField(&sb, "Phone:", e.Phone)
	writeField(&sb, "Street:", e.StreetAddress)
	writeField(&sb, "City:", e.CityStateZip)
	writeField(&sb, "Description:", e.Description)
	writeField(&sb, "Website:", e.Website)
	sb.WriteString("\n")
	sb.WriteString(separatorStyle.Render(separator))
	sb.WriteString("\n\n")
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(label))
	sb.WriteString(" ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

// PrintEntries writes every entry to w
func PrintEntries(w io.Writer, entries []models.BusinessEntry) {
	for _, e := range entries {
		fmt.Fprint(w, FormatEntry(e))
	}
}

// Summary is a one-line description of a finished search
func Summary(result *search.Result) string {
	s := fmt.Sprintf("Found %d listings for %q in %s across %d page(s)",
		len(result.Entries), result.Query.Term, result.Query.ZipCode, result.Pages)
	if result.Truncated {
		s += fmt.Sprintf(" (stopped at page limit, site reports %d)", result.LastPage)
	}
	return s
}
