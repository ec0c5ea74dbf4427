package db

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// NewDB opens a PostgreSQL connection and makes sure the tables exist
func NewDB(connStr string) (*DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist
func (db *DB) initSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS searches (
			id SERIAL PRIMARY KEY,
			term TEXT NOT NULL,
			zip_code VARCHAR(20) NOT NULL,
			url TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'created',
			pages_count INTEGER NOT NULL DEFAULT 0,
			entries_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT valid_status CHECK (status IN ('created', 'done', 'failed'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create searches table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS business_entries (
			id SERIAL PRIMARY KEY,
			search_id INTEGER NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			phone TEXT,
			street_address TEXT,
			city_state_zip TEXT,
			description TEXT,
			website TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create business_entries table: %w", err)
	}

	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_business_entries_search_id ON business_entries(search_id)`)
	if err != nil {
		log.Warn("Failed to create index on business_entries.search_id", "err", err)
	}

	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_searches_status ON searches(status)`)
	if err != nil {
		log.Warn("Failed to create index on searches.status", "err", err)
	}

	log.Debug("Database schema initialized")
	return nil
}
