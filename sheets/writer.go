package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"yellowpages-scraper/models"
)

const maxSheetNameLen = 100

// Header matches the CSV export column order
var Header = []interface{}{"Name", "Phone", "StreetAddress", "CityStateZip", "Description", "Website"}

// Writer handles writing entries to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a new Google Sheets writer
func NewWriter(spreadsheetID string, credentialsPath string) (*Writer, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}

	credsJSON, err := loadCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(context.Background(), option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// loadCredentials reads service account JSON from a file, or from
// GOOGLE_SHEETS_CREDENTIALS when no path is given
func loadCredentials(credentialsPath string) ([]byte, error) {
	var credsJSON []byte
	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		log.Debug("Reading credentials from GOOGLE_SHEETS_CREDENTIALS", "bytes", len(credsEnv))
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}
	return credsJSON, nil
}

// CreateSheetAndWriteEntries creates a new sheet at index 0 and writes the
// search URL, the header and one row per entry.
// Returns the sheet name and sheet ID (gid) that was created
func (w *Writer) CreateSheetAndWriteEntries(sheetName string, entries []models.BusinessEntry, searchURL string) (string, int64, error) {
	sheetName = sanitizeSheetName(sheetName)

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						Index: 0,
					},
				},
			},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}
	log.Debug("Created sheet", "name", sheetName, "id", sheetID)

	valueRange := &sheets.ValueRange{
		Values: entryRows(entries, searchURL),
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("'%s'!A1", sheetName), valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	log.Info("Wrote entries to Google Sheets", "count", len(entries), "sheet", sheetName)
	return sheetName, sheetID, nil
}

// entryRows lays out the sheet body
func entryRows(entries []models.BusinessEntry, searchURL string) [][]interface{} {
	values := make([][]interface{}, 0, len(entries)+2)
	if searchURL != "" {
		values = append(values, []interface{}{"URL", searchURL})
	}
	values = append(values, Header)
	for _, e := range entries {
		values = append(values, []interface{}{
			e.Name,
			e.Phone,
			e.StreetAddress,
			e.CityStateZip,
			e.Description,
			e.Website,
		})
	}
	return values
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]", "'"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(truncate(strings.TrimSpace(result), maxSheetNameLen))
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// SheetName is "<term> <zip> <timestamp>". The term is shortened first so
// the timestamp always survives the length limit and names stay unique.
func SheetName(term, zip string, now time.Time) string {
	suffix := strings.TrimSpace(zip + " " + now.Format("20060102_150405"))
	term = strings.TrimSpace(truncate(strings.TrimSpace(term), maxSheetNameLen-len(suffix)-1))
	if term == "" {
		return suffix
	}
	return term + " " + suffix
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
// A bare ID is returned unchanged.
func ExtractSpreadsheetID(url string) string {
	url = strings.TrimSpace(url)
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		if strings.ContainsAny(url, "/?") {
			return ""
		}
		return url
	}

	idPart := parts[1]
	if idx := strings.IndexAny(idPart, "/?#"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
