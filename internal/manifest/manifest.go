// Package manifest keeps a local journal of uploaded objects. The stored
// files carry no request identity in their columns, so the journal is what
// turns a deterministic query into the physical object holding the record,
// without scanning the partition.
package manifest

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/webindex/pkg/paths"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Manifest is the SQLite-backed upload journal.
type Manifest struct {
	mu sync.Mutex
	db *sql.DB
}

// Entry is one journaled record: its deterministic lookup coordinates and
// the object it was written to.
type Entry struct {
	Lookup       query.Deterministic
	PhysicalPath paths.PhysicalPath
	UploadedAt   time.Time
}

// Open creates the journal database under dir, creating the directory and
// schema as needed.
func Open(dir string) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "manifest.db"))
	if err != nil {
		return nil, fmt.Errorf("opening manifest db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing manifest schema: %w", err)
	}

	return &Manifest{db: db}, nil
}

// Close releases the journal. Idempotent.
func (m *Manifest) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// Record journals the given entries in one transaction.
func (m *Manifest) Record(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return fmt.Errorf("manifest is closed")
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.Exec(
			"INSERT INTO uploads (request_id, record_type, url, timestamp, logical_path, marker, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			e.Lookup.RequestID.String(),
			e.Lookup.Type.Dir(),
			e.Lookup.URL.String(),
			types.FormatTimestamp(e.Lookup.Timestamp),
			e.PhysicalPath.Logical.String(),
			e.PhysicalPath.Marker,
			e.UploadedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("journaling upload: %w", err)
		}
	}
	return tx.Commit()
}

// Lookup returns the physical paths journaled for a deterministic query.
// An empty result means the journal has no knowledge of the record, not
// that the record does not exist.
func (m *Manifest) Lookup(q query.Deterministic) ([]paths.PhysicalPath, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil, fmt.Errorf("manifest is closed")
	}

	rows, err := m.db.Query(
		"SELECT logical_path, marker FROM uploads WHERE request_id = ? AND record_type = ? AND url = ? AND timestamp = ?",
		q.RequestID.String(), q.Type.Dir(), q.URL.String(), types.FormatTimestamp(q.Timestamp),
	)
	if err != nil {
		return nil, fmt.Errorf("querying manifest: %w", err)
	}
	defer rows.Close()

	var out []paths.PhysicalPath
	for rows.Next() {
		var logicalText, marker string
		if err := rows.Scan(&logicalText, &marker); err != nil {
			return nil, fmt.Errorf("scanning manifest row: %w", err)
		}
		logical, err := paths.ParseLogicalPath(logicalText)
		if err != nil {
			return nil, fmt.Errorf("corrupt manifest row: %w", err)
		}
		out = append(out, paths.NewPhysicalPath(logical, marker))
	}
	return out, rows.Err()
}
