package types

import (
	"errors"
	"time"
)

// SessionStore keeps BakeArgs between edits. Callers load a record, rebuild
// the Bake, apply one change and save Bake.Args back under the same ID.
type SessionStore interface {
	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, other operations return ErrStoreDetached.
	Detach() error

	// Save creates or replaces a bake. When id is empty a new UUID v7 is
	// generated. Returns the ID used.
	Save(id string, args BakeArgs) (string, error)

	// Load returns the bake stored under id, or ErrBakeNotFound.
	Load(id string) (BakeArgs, error)

	// Latest returns the most recently saved bake, or ErrBakeNotFound when
	// the store is empty.
	Latest() (BakeRecord, error)

	// List returns all bakes, most recently saved first.
	List() ([]BakeRecord, error)

	// Delete removes the bake stored under id, or returns ErrBakeNotFound.
	Delete(id string) error
}

// BakeRecord is a stored bake with its bookkeeping fields.
type BakeRecord struct {
	BakeID    string    `json:"bake_id"`
	Args      BakeArgs  `json:"args"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrInvalidID       = errors.New("invalid bake ID")
)
