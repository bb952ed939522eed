package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/orieldave/half-baked/pkg/types"
)

// Save stores args under id, generating a UUID v7 when id is empty. An
// existing bake keeps its creation time. bakes.jsonl is rewritten before
// Save returns.
func (b *Backend) Save(id string, args types.BakeArgs) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}

	if id == "" {
		newID, err := generateID()
		if err != nil {
			return "", err
		}
		id = newID
	}

	payload, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encoding bake %s: %w", id, err)
	}
	now := formatTime(b.now())

	if _, err := b.db.Exec(
		`INSERT INTO bakes (bake_id, name, args, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(bake_id) DO UPDATE SET name = excluded.name, args = excluded.args, updated_at = excluded.updated_at`,
		id, args.Name, string(payload), now, now,
	); err != nil {
		return "", fmt.Errorf("persisting bake %s: %w", id, err)
	}

	if err := b.persistJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", bakesJSONL, err)
	}
	b.logger.Debug("bake saved", "bake_id", id, "name", args.Name, "stages", len(args.Ferments))
	return id, nil
}

// Load returns the bake stored under id.
func (b *Backend) Load(id string) (types.BakeArgs, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.BakeArgs{}, types.ErrStoreDetached
	}
	if id == "" {
		return types.BakeArgs{}, types.ErrInvalidID
	}

	var payload string
	err := b.db.QueryRow("SELECT args FROM bakes WHERE bake_id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return types.BakeArgs{}, fmt.Errorf("%w: %s", types.ErrBakeNotFound, id)
	}
	if err != nil {
		return types.BakeArgs{}, fmt.Errorf("getting bake %s: %w", id, err)
	}

	var args types.BakeArgs
	if err := json.Unmarshal([]byte(payload), &args); err != nil {
		return types.BakeArgs{}, fmt.Errorf("decoding bake %s: %w", id, err)
	}
	return args, nil
}

// Latest returns the most recently saved bake.
func (b *Backend) Latest() (types.BakeRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.BakeRecord{}, types.ErrStoreDetached
	}
	recs, err := b.queryRecords("SELECT bake_id, args, created_at, updated_at FROM bakes ORDER BY updated_at DESC, bake_id DESC LIMIT 1")
	if err != nil {
		return types.BakeRecord{}, err
	}
	if len(recs) == 0 {
		return types.BakeRecord{}, fmt.Errorf("%w: store is empty", types.ErrBakeNotFound)
	}
	return recs[0], nil
}

// List returns all bakes, most recently saved first.
func (b *Backend) List() ([]types.BakeRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.queryRecords("SELECT bake_id, args, created_at, updated_at FROM bakes ORDER BY updated_at DESC, bake_id DESC")
}

// Delete removes the bake stored under id.
func (b *Backend) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := b.db.Exec("DELETE FROM bakes WHERE bake_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting bake %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting bake %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrBakeNotFound, id)
	}

	if err := b.persistJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", bakesJSONL, err)
	}
	b.logger.Debug("bake deleted", "bake_id", id)
	return nil
}

// queryRecords runs a query selecting bake_id, args, created_at and
// updated_at and hydrates the rows.
func (b *Backend) queryRecords(query string, args ...any) ([]types.BakeRecord, error) {
	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bakes: %w", err)
	}
	defer rows.Close()

	var out []types.BakeRecord
	for rows.Next() {
		var (
			rec                       types.BakeRecord
			payload, created, updated string
		)
		if err := rows.Scan(&rec.BakeID, &payload, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning bake: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Args); err != nil {
			return nil, fmt.Errorf("decoding bake %s: %w", rec.BakeID, err)
		}
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("bake %s created_at: %w", rec.BakeID, err)
		}
		if rec.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, fmt.Errorf("bake %s updated_at: %w", rec.BakeID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bakes: %w", err)
	}
	return out, nil
}
