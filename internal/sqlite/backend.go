// Package sqlite implements blogctl's local store on SQLite: the persisted
// session key-value table and the media upload history.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "blogctl.db"

// Backend owns the SQLite handle. Attach opens it, Detach releases it.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates dataDir if needed, opens the database, and applies the
// schema. Existing data is kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(dataDir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection keeps pragmas and writes consistent for a CLI process.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	b.db = db
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent; afterwards every
// operation returns ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// handle returns the open database or ErrStoreDetached.
// The caller must hold b.mu.
func (b *Backend) handle() (*sql.DB, error) {
	if !b.attached || b.db == nil {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// generateUUID generates a new UUID v7 for row IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
