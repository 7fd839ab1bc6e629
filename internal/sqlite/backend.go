// This file implements the Pantry lifecycle for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// dbFileName is the SQLite cache file inside DataDir.
const dbFileName = "larder.db"

var _ types.Pantry = (*Backend)(nil)

// Backend implements the Pantry interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]*foodsTable
	log      zerolog.Logger
}

// NewBackend creates a new SQLite backend instance that logs through the
// global zerolog logger. The backend is not attached; call Attach with a
// Config to initialize.
func NewBackend() *Backend {
	return NewBackendWithLogger(log.Logger)
}

// NewBackendWithLogger is NewBackend with an explicit logger.
func NewBackendWithLogger(logger zerolog.Logger) *Backend {
	return &Backend{
		tables: make(map[string]*foodsTable),
		log:    logger.With().Str("component", "sqlite").Logger(),
	}
}

// GetTable returns a Table interface for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrPantryDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrPantryDetached
	}

	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, rebuilds the SQLite cache from the
// JSONL files, and creates table accessors.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
		config.DataDir = dataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The cache is rebuilt from JSONL on every attach.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// A single connection keeps transactions and the cache consistent.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating indexes: %w", err)
		}
	}

	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}

	loaded, assigned, err := loadFoodsJSONL(db, dataDir, b.log)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	b.tables[types.FoodsTable] = &foodsTable{backend: b}

	if assigned {
		if err := b.persistFoodsLocked(); err != nil {
			b.closeLocked()
			return fmt.Errorf("persisting assigned IDs: %w", err)
		}
	}

	b.log.Debug().Str("data_dir", dataDir).Int("foods", loaded).Msg("attached")
	return nil
}

// Detach releases all resources held by the backend.
// Closes the SQLite connection. After Detach, all operations return
// ErrPantryDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	return b.closeLocked()
}

// closeLocked closes the database and resets state. The caller must hold
// b.mu.
func (b *Backend) closeLocked() error {
	var err error
	if b.db != nil {
		err = b.db.Close()
		b.db = nil
	}
	b.attached = false
	b.tables = make(map[string]*foodsTable)
	return err
}

// DataDir returns the directory the backend is attached to, or "" when
// detached.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return ""
	}
	return b.config.DataDir
}

// Estimator returns the estimator selected by the attached config.
func (b *Backend) Estimator() types.Estimator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Estimator()
}
