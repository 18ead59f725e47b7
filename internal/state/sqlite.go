package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/teamcutter/extractr/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
    id         TEXT PRIMARY KEY,
    archive    TEXT NOT NULL,
    adapter    TEXT NOT NULL DEFAULT '',
    output_dir TEXT NOT NULL DEFAULT '',
    files      INTEGER NOT NULL DEFAULT 0,
    status     TEXT NOT NULL,
    error      TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS extractions_created_at ON extractions (created_at);
`

// timeFormat has fixed width so created_at sorts correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var _ domain.History = &SQLiteState{}

// SQLiteState keeps the extraction history.
type SQLiteState struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteState, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteState{db: db}, nil
}

// Record stores rec, filling in ID and CreatedAt when unset.
func (s *SQLiteState) Record(rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO extractions
		(id, archive, adapter, output_dir, files, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Archive, rec.Adapter, rec.OutputDir, rec.Files,
		string(rec.Status), rec.Error, rec.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", rec.Archive, err)
	}
	return nil
}

// List returns the most recent records first. A limit below 1 returns everything.
func (s *SQLiteState) List(limit int) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT id, archive, adapter, output_dir, files, status, error, created_at
		FROM extractions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		var status, createdAt string

		if err := rows.Scan(&rec.ID, &rec.Archive, &rec.Adapter, &rec.OutputDir,
			&rec.Files, &status, &rec.Error, &createdAt); err != nil {
			return nil, err
		}

		rec.Status = domain.RecordStatus(status)
		created, err := time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at for %s: %w", rec.ID, err)
		}
		rec.CreatedAt = created
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *SQLiteState) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM extractions")
	return err
}

func (s *SQLiteState) Close() error {
	return s.db.Close()
}
