// Package sqlite provides the public factory for the SQLite session store
// while keeping implementation details internal.
package sqlite

import (
	"log/slog"

	"github.com/orieldave/half-baked/internal/sqlite"
	"github.com/orieldave/half-baked/pkg/types"
)

// NewBackend creates a detached SQLite session store. A nil logger uses
// slog.Default.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "bakes",
//	})
//	defer store.Detach()
func NewBackend(logger *slog.Logger) types.SessionStore {
	return sqlite.NewBackend(logger)
}
