// Package document persists finalized object snapshots into a host
// document backed by SQLite. The database handle is injected; nothing
// in this package keeps ambient global state.
package document

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/chazu/partforge/pkg/object"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("document: record not found")

// Record is one persisted object snapshot.
type Record struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"createdAt"`
	Snapshot  *object.Snapshot `json:"snapshot"`
}

// Store reads and writes records over an injected *sql.DB.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS parts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	snapshot JSON NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_parts_name ON parts(name);
`

// Open opens (creating if needed) a SQLite host document at path and
// bootstraps the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle. The schema must already
// exist; use Open for file-backed documents.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save persists a snapshot and returns the stored record.
func (s *Store) Save(snap *object.Snapshot) (*Record, error) {
	if snap == nil {
		return nil, errors.New("document: nil snapshot")
	}

	rec := &Record{
		ID:        uuid.New(),
		Name:      snap.Name,
		CreatedAt: time.Now().UTC(),
		Snapshot:  snap,
	}
	blob, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %q: %w", snap.Name, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO parts (id, name, created_at, snapshot) VALUES (?, ?, ?, ?)`,
		rec.ID.String(), rec.Name, rec.CreatedAt.UnixNano(), blob,
	)
	if err != nil {
		return nil, fmt.Errorf("save %q: %w", snap.Name, err)
	}
	return rec, nil
}

// Get loads one record by ID.
func (s *Store) Get(id uuid.UUID) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, name, created_at, snapshot FROM parts WHERE id = ?`,
		id.String(),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns all records ordered by creation time.
func (s *Store) List() ([]*Record, error) {
	rows, err := s.db.Query(
		`SELECT id, name, created_at, snapshot FROM parts ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		idStr     string
		name      string
		createdAt int64
		blob      []byte
	)
	if err := row.Scan(&idStr, &name, &createdAt, &blob); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("record %q: bad id: %w", name, err)
	}
	var snap object.Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("record %q: decode snapshot: %w", name, err)
	}

	return &Record{
		ID:        id,
		Name:      name,
		CreatedAt: time.Unix(0, createdAt).UTC(),
		Snapshot:  &snap,
	}, nil
}
