package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"yellowpages-scraper/models"
)

// ErrUnknownFormat is returned for anything other than json or csv
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts a format name or its menu letter (A for json, B for csv)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "a":
		return FormatJSON, nil
	case "csv", "b":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// FileFilter restricts a save dialog to one kind of file
type FileFilter struct {
	Label     string // e.g. "JSON Files (*.json)"
	Extension string // e.g. ".json"
}

// FilterFor returns the save dialog filter for a format
func FilterFor(format Format) FileFilter {
	switch format {
	case FormatJSON:
		return FileFilter{Label: "JSON Files (*.json)", Extension: FormatJSON.Extension()}
	default:
		return FileFilter{Label: "CSV file (*.csv)", Extension: FormatCSV.Extension()}
	}
}

// Write serializes entries in the given format
func Write(w io.Writer, format Format, entries []models.BusinessEntry) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatCSV:
		return WriteCSV(w, entries)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// WriteJSON writes entries as a single JSON array
func WriteJSON(w io.Writer, entries []models.BusinessEntry) error {
	if entries == nil {
		entries = []models.BusinessEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteCSV writes a header row followed by one row per entry
func WriteCSV(w io.Writer, entries []models.BusinessEntry) error {
	if entries == nil {
		entries = []models.BusinessEntry{}
	}

	if err := gocsv.Marshal(entries, w); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	return nil
}

// Export writes entries to path, replacing any existing file
func Export(path string, format Format, entries []models.BusinessEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, format, entries); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
