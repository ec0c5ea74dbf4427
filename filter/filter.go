package filter

import (
	"yellowpages-scraper/config"
	"yellowpages-scraper/models"
)

// Filter applies filter criteria to entries
type Filter struct {
	cfg         config.FilterConfig
	placeholder string
}

// NewFilter creates a new Filter instance
func NewFilter(cfg config.FilterConfig, placeholder string) *Filter {
	if placeholder == "" {
		placeholder = models.NotFound
	}
	return &Filter{
		cfg:         cfg,
		placeholder: placeholder,
	}
}

// Active reports whether any criterion is switched on
func (f *Filter) Active() bool {
	return f.cfg.RequirePhone || f.cfg.RequireWebsite || f.cfg.Dedupe
}

// ApplyFilters filters entries based on the configuration, keeping order
func (f *Filter) ApplyFilters(entries []models.BusinessEntry) []models.BusinessEntry {
	filtered := make([]models.BusinessEntry, 0, len(entries))
	seen := make(map[entryKey]bool)

	for _, entry := range entries {
		if !f.matchesFilters(entry) {
			continue
		}
		if f.cfg.Dedupe {
			key := keyOf(entry)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		filtered = append(filtered, entry)
	}

	return filtered
}

// matchesFilters checks if an entry matches all filter criteria
func (f *Filter) matchesFilters(entry models.BusinessEntry) bool {
	if f.cfg.RequirePhone && f.missing(entry.Phone) {
		return false
	}
	if f.cfg.RequireWebsite && f.missing(entry.Website) {
		return false
	}
	return true
}

func (f *Filter) missing(value string) bool {
	return value == "" || value == f.placeholder
}

// Listings repeat across pages when the site pads results with ads
type entryKey struct {
	name, phone, street string
}

func keyOf(e models.BusinessEntry) entryKey {
	return entryKey{name: e.Name, phone: e.Phone, street: e.StreetAddress}
}
