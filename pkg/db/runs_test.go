package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestCreateRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("title 40")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if runID == "" {
		t.Fatal("CreateRun() returned empty run ID")
	}

	// Two runs with the same selector get distinct IDs
	secondID, err := db.CreateRun("title 40")
	if err != nil {
		t.Fatalf("CreateRun() second call error = %v", err)
	}
	if secondID == runID {
		t.Errorf("CreateRun() reused run ID %s", runID)
	}

	var selector string
	err = db.QueryRow("SELECT selector FROM runs WHERE run_id = ?", runID).Scan(&selector)
	if err != nil {
		t.Fatalf("failed to query run: %v", err)
	}
	if selector != "title 40" {
		t.Errorf("selector = %q, want %q", selector, "title 40")
	}
}

func TestFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.CreateRun("part 40 60")
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	if err := db.FinishRun(runID, 1, 217, 210, 7); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := db.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns() returned %d runs, want 1", len(runs))
	}

	run := runs[0]
	if !run.FinishedAt.Valid {
		t.Error("FinishedAt not set after FinishRun()")
	}
	if run.PartCount != 1 {
		t.Errorf("PartCount = %d, want 1", run.PartCount)
	}
	if run.AttributedCount != 217 {
		t.Errorf("AttributedCount = %d, want 217", run.AttributedCount)
	}
	if run.FetchedCount != 210 {
		t.Errorf("FetchedCount = %d, want 210", run.FetchedCount)
	}
	if run.SkippedCount != 7 {
		t.Errorf("SkippedCount = %d, want 7", run.SkippedCount)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Unfinished run: FinishedAt stays null
	if _, err := db.CreateRun("title 21"); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns() returned %d runs, want 1", len(runs))
	}
	if runs[0].FinishedAt.Valid {
		t.Error("FinishedAt set for unfinished run")
	}
	if runs[0].Selector != "title 21" {
		t.Errorf("Selector = %q, want %q", runs[0].Selector, "title 21")
	}
}

func TestListRuns_Limit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 5; i++ {
		if _, err := db.CreateRun("title 40"); err != nil {
			t.Fatalf("CreateRun() error = %v", err)
		}
	}

	runs, err := db.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("ListRuns(3) returned %d runs, want 3", len(runs))
	}

	// Non-positive limit falls back to the default
	runs, err = db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns(0) error = %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("ListRuns(0) returned %d runs, want 5", len(runs))
	}
}

func TestListRuns_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("ListRuns() returned %d runs, want 0", len(runs))
	}
}
