package db

import (
	"database/sql"
	"fmt"
	"time"

	"yellowpages-scraper/models"
)

// Search statuses
const (
	StatusCreated = "created"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Search represents one term/zip lookup
type Search struct {
	ID           int
	Term         string
	ZipCode      string
	URL          string
	Status       string // "created", "done", "failed"
	PagesCount   int
	EntriesCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateSearch records a new search in the created state
func (db *DB) CreateSearch(query models.SearchQuery, url string) (*Search, error) {
	var s Search
	err := db.conn.QueryRow(`
		INSERT INTO searches (term, zip_code, url, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, term, zip_code, url, status, pages_count, entries_count, created_at, updated_at
	`, query.Term, query.ZipCode, url, StatusCreated).Scan(
		&s.ID, &s.Term, &s.ZipCode, &s.URL, &s.Status,
		&s.PagesCount, &s.EntriesCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search: %w", err)
	}
	return &s, nil
}

// SaveEntries stores entries of a search in a single transaction
func (db *DB) SaveEntries(searchID int, entries []models.BusinessEntry, placeholder string) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO business_entries (search_id, position, name, phone, street_address, city_state_zip, description, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		_, err := stmt.Exec(searchID, i+1, e.Name,
			nullable(e.Phone, placeholder),
			nullable(e.StreetAddress, placeholder),
			nullable(e.CityStateZip, placeholder),
			nullable(e.Description, placeholder),
			nullable(e.Website, placeholder),
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry (searchID=%d, position=%d): %w", searchID, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FinishSearch sets the final status and counts
func (db *DB) FinishSearch(searchID int, status string, pagesCount, entriesCount int) error {
	_, err := db.conn.Exec(`
		UPDATE searches
		SET status = $1, pages_count = $2, entries_count = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, status, pagesCount, entriesCount, searchID)
	if err != nil {
		return fmt.Errorf("failed to finish search %d: %w", searchID, err)
	}
	return nil
}

// GetSearchByID retrieves a search by ID
func (db *DB) GetSearchByID(searchID int) (*Search, error) {
	var s Search
	err := db.conn.QueryRow(`
		SELECT id, term, zip_code, url, status, pages_count, entries_count, created_at, updated_at
		FROM searches
		WHERE id = $1
	`, searchID).Scan(
		&s.ID, &s.Term, &s.ZipCode, &s.URL, &s.Status,
		&s.PagesCount, &s.EntriesCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// nullable maps the placeholder and empty text to NULL
func nullable(value, placeholder string) sql.NullString {
	if value == "" || value == placeholder {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
