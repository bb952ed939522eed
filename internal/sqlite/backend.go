// Package sqlite implements the session store for saved bakes. SQLite is the
// query engine; bakes.jsonl in the data directory is the source of truth and
// is loaded into a fresh database on every Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/orieldave/half-baked/pkg/types"
)

var _ types.SessionStore = (*Backend)(nil)

// Backend implements types.SessionStore on SQLite and a JSONL file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger

	// now is overridden in tests.
	now func() time.Time
}

// NewBackend creates a detached backend. A nil logger uses slog.Default.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		logger: logger,
		now:    time.Now,
	}
}

// Attach creates DataDir if needed, builds a fresh database and loads
// bakes.jsonl into it. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if config.DataDir == "" {
		config.DataDir = "."
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(config.DataDir, dbFileName)
	// The JSONL file is authoritative; start from an empty database.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config

	n, err := b.loadJSONL()
	if err != nil {
		db.Close()
		b.db = nil
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.attached = true
	b.logger.Debug("session store attached", "data_dir", config.DataDir, "bakes", n)
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.logger.Debug("session store detached", "data_dir", b.config.DataDir)
	return nil
}

// loadJSONL inserts every valid record of bakes.jsonl. Records without an ID
// or with unreadable fields are skipped.
func (b *Backend) loadJSONL() (int, error) {
	records, err := readJSONL(b.jsonlPath())
	if err != nil {
		return 0, err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	loaded := 0
	for _, raw := range records {
		var rec types.BakeRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.BakeID == "" {
			b.logger.Warn("skipping malformed bake record", "error", err)
			continue
		}
		args, err := json.Marshal(rec.Args)
		if err != nil {
			return 0, fmt.Errorf("encoding bake %s: %w", rec.BakeID, err)
		}
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO bakes (bake_id, name, args, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			rec.BakeID, rec.Args.Name, string(args), formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
		); err != nil {
			return 0, fmt.Errorf("loading bake %s: %w", rec.BakeID, err)
		}
		loaded++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load: %w", err)
	}
	return loaded, nil
}

// persistJSONL rewrites bakes.jsonl from the bakes table.
func (b *Backend) persistJSONL() error {
	recs, err := b.queryRecords("SELECT bake_id, args, created_at, updated_at FROM bakes ORDER BY created_at, bake_id")
	if err != nil {
		return err
	}
	lines := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding bake %s: %w", rec.BakeID, err)
		}
		lines = append(lines, line)
	}
	return writeJSONL(b.jsonlPath(), lines)
}

func (b *Backend) jsonlPath() string {
	return filepath.Join(b.config.DataDir, bakesJSONL)
}

// generateID returns a new UUID v7 for a bake.
func generateID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
