package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"yellowpages-scraper/config"
	"yellowpages-scraper/db"
	"yellowpages-scraper/models"
	"yellowpages-scraper/notify"
	"yellowpages-scraper/search"
	"yellowpages-scraper/searchurl"
	"yellowpages-scraper/sheets"
)

// openStore connects to Postgres and records the search. Failures only
// disable the store.
func openStore(cfg *config.Config, urls *searchurl.Builder, query models.SearchQuery) (*db.DB, int) {
	if cfg.Database.URL == "" {
		return nil, 0
	}

	database, err := db.NewDB(cfg.Database.URL)
	if err != nil {
		log.Warn("Database disabled", "err", err)
		return nil, 0
	}

	firstURL, err := urls.Build(query.Term, query.ZipCode, 1)
	if err != nil {
		database.Close()
		log.Warn("Database disabled", "err", err)
		return nil, 0
	}

	s, err := database.CreateSearch(query, firstURL)
	if err != nil {
		database.Close()
		log.Warn("Database disabled", "err", err)
		return nil, 0
	}
	log.Debug("Recorded search", "id", s.ID)
	return database, s.ID
}

func finishSearch(database *db.DB, searchID int, status string, result *search.Result) {
	pages, entries := 0, 0
	if result != nil {
		pages, entries = result.Pages, len(result.Entries)
	}
	if err := database.FinishSearch(searchID, status, pages, entries); err != nil {
		log.Warn("Failed to update search status", "err", err)
		return
	}

	stored, err := database.GetSearchByID(searchID)
	if err != nil {
		log.Warn("Failed to read back search", "id", searchID, "err", err)
		return
	}
	log.Debug("Stored search", "id", stored.ID, "status", stored.Status,
		"pages", stored.PagesCount, "entries", stored.EntriesCount)
}

// writeSheet copies the results into a new sheet and returns a link to it,
// or "" when the writer is disabled or failed
func writeSheet(cfg *config.Config, result *search.Result) string {
	if !cfg.SheetsEnabled() {
		return ""
	}

	spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
	if spreadsheetID == "" {
		log.Warn("Could not extract spreadsheet ID from URL", "url", cfg.Sheets.SpreadsheetURL)
		return ""
	}

	writer, err := sheets.NewWriter(spreadsheetID, cfg.Sheets.CredentialsPath)
	if err != nil {
		log.Warn("Failed to initialize Google Sheets writer", "err", err)
		return ""
	}

	_, sheetID, err := writer.CreateSheetAndWriteEntries(sheets.SheetName(result.Query.Term, result.Query.ZipCode, time.Now()), result.Entries, result.FirstURL)
	if err != nil {
		log.Warn("Failed to write to Google Sheets", "err", err)
		return ""
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", spreadsheetID, sheetID)
}

func notifyTelegram(cfg *config.Config, result *search.Result, sheetURL, savedPath string) {
	if !cfg.TelegramEnabled() {
		return
	}

	notifier, err := notify.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Warn("Telegram disabled", "err", err)
		return
	}

	if err := notifier.NotifySearchComplete(result, sheetURL); err != nil {
		log.Warn("Failed to send Telegram summary", "err", err)
		return
	}
	if savedPath != "" {
		if err := notifier.SendFile(savedPath); err != nil {
			log.Warn("Failed to send exported file", "err", err)
		}
	}
}
