package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// UpsertDocument inserts or updates the metadata row for a downloaded document.
func (db *DB) UpsertDocument(documentNumber, title, citation, publicationDate string, htmlSizeBytes int64, wordCount, paragraphCount int) error {
	// Check if document already exists
	var existing string
	err := db.QueryRow("SELECT document_number FROM documents WHERE document_number = ?", documentNumber).Scan(&existing)
	if err == nil {
		// Update existing document
		_, err = db.Exec(`
			UPDATE documents
			SET title = ?, citation = ?, publication_date = ?,
				html_size_bytes = ?, word_count = ?, paragraph_count = ?,
				fetched_at = CURRENT_TIMESTAMP
			WHERE document_number = ?
		`, title, citation, publicationDate, htmlSizeBytes, wordCount, paragraphCount, documentNumber)
		if err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	// Insert new document
	_, err = db.Exec(`
		INSERT INTO documents (document_number, title, citation, publication_date, html_size_bytes, word_count, paragraph_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, documentNumber, title, citation, publicationDate, htmlSizeBytes, wordCount, paragraphCount)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// RecordFetchEvent records one fetch attempt in fetch_events.
func (db *DB) RecordFetchEvent(runID, documentNumber, status, reason string) error {
	_, err := db.Exec(`
		INSERT INTO fetch_events (run_id, document_number, status, reason)
		VALUES (?, ?, ?, ?)
	`, runID, documentNumber, status, reason)
	if err != nil {
		return fmt.Errorf("failed to record fetch event: %w", err)
	}
	return nil
}

// CountEventsByStatus returns the number of fetch events with the given
// status within one run.
func (db *DB) CountEventsByStatus(runID, status string) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM fetch_events
		WHERE run_id = ? AND status = ?
	`, runID, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fetch events: %w", err)
	}
	return count, nil
}
