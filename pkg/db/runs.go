package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run represents one pipeline invocation
type Run struct {
	RunID           string
	Selector        string
	StartedAt       time.Time
	FinishedAt      sql.NullTime
	PartCount       int
	AttributedCount int
	FetchedCount    int
	SkippedCount    int
}

// CreateRun inserts a new run record and returns its ID.
func (db *DB) CreateRun(selector string) (string, error) {
	runID := uuid.New().String()

	_, err := db.Exec(`
		INSERT INTO runs (run_id, selector)
		VALUES (?, ?)
	`, runID, selector)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	return runID, nil
}

// FinishRun records the final counters for a run and stamps its end time.
func (db *DB) FinishRun(runID string, partCount, attributedCount, fetchedCount, skippedCount int) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP,
			part_count = ?,
			attributed_count = ?,
			fetched_count = ?,
			skipped_count = ?
		WHERE run_id = ?
	`, partCount, attributedCount, fetchedCount, skippedCount, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT run_id, selector, started_at, finished_at,
			part_count, attributed_count, fetched_count, skipped_count
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(&run.RunID, &run.Selector, &run.StartedAt, &run.FinishedAt,
			&run.PartCount, &run.AttributedCount, &run.FetchedCount, &run.SkippedCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}
