package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per pipeline invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    selector TEXT NOT NULL,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    part_count INTEGER DEFAULT 0,
    attributed_count INTEGER DEFAULT 0,
    fetched_count INTEGER DEFAULT 0,
    skipped_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Documents: metadata for every FR document body downloaded to disk
CREATE TABLE IF NOT EXISTS documents (
    document_number TEXT PRIMARY KEY,
    title TEXT,
    citation TEXT,
    publication_date TEXT,
    html_size_bytes INTEGER,
    word_count INTEGER,
    paragraph_count INTEGER,
    fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_citation ON documents(citation);

-- Fetch events: every document fetch attempt within a run
CREATE TABLE IF NOT EXISTS fetch_events (
    event_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    document_number TEXT NOT NULL,
    status TEXT NOT NULL,  -- fetched, cached, skipped
    reason TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_events_run ON fetch_events(run_id);
CREATE INDEX IF NOT EXISTS idx_events_document ON fetch_events(document_number);
CREATE INDEX IF NOT EXISTS idx_events_status ON fetch_events(status);
`
