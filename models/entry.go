package models

// NotFound is the value stored in a field whose markup node was absent
const NotFound = "not found"

// BusinessEntry represents a single business listing from a search results page
type BusinessEntry struct {
	Name          string `json:"Name" csv:"Name"`
	Phone         string `json:"Phone" csv:"Phone"`
	StreetAddress string `json:"StreetAddress" csv:"StreetAddress"`
	CityStateZip  string `json:"CityStateZip" csv:"CityStateZip"`
	Description   string `json:"Description" csv:"Description"`
	Website       string `json:"Website" csv:"Website"`
}

// SearchQuery is what the user asked for
type SearchQuery struct {
	Term    string
	ZipCode string
}
