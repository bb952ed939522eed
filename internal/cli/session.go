package cli

import (
	"fmt"
	"io"

	"github.com/orieldave/half-baked/internal/paths"
	"github.com/orieldave/half-baked/internal/render"
	"github.com/orieldave/half-baked/pkg/sqlite"
	"github.com/orieldave/half-baked/pkg/types"
)

// bakeOutput is the JSON shape printed for a single bake.
type bakeOutput struct {
	BakeID string `json:"bake_id"`
	types.BakeArgs
}

// session is a bake loaded from the store together with its ID.
type session struct {
	store types.SessionStore
	id    string
	bake  *types.Bake
}

// openStore resolves the data directory and attaches a session store. The
// caller must Detach it.
func (a *app) openStore() (types.SessionStore, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	store := sqlite.NewBackend(a.logger)
	cfg := types.Config{
		Backend: a.cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	if err := store.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	return store, nil
}

// openSession loads the bake named by --bake, or the most recently saved one.
// The caller must close the session.
func (a *app) openSession() (*session, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	var (
		id   = a.bakeID
		args types.BakeArgs
	)
	if id == "" {
		rec, err := store.Latest()
		if err != nil {
			store.Detach()
			return nil, storeError(fmt.Errorf("no current bake, run 'halfbaked new' first: %w", err))
		}
		id, args = rec.BakeID, rec.Args
	} else if args, err = store.Load(id); err != nil {
		store.Detach()
		return nil, storeError(err)
	}

	bake, err := types.NewBakeWithDefaults(args, a.defaults)
	if err != nil {
		store.Detach()
		return nil, fmt.Errorf("bake %s: %w", id, err)
	}
	return &session{store: store, id: id, bake: bake}, nil
}

func (s *session) save() error {
	if _, err := s.store.Save(s.id, s.bake.Args()); err != nil {
		return sysError(fmt.Errorf("save bake %s: %w", s.id, err))
	}
	return nil
}

func (s *session) close() {
	s.store.Detach()
}

// mutate applies change to the current bake, saves it and prints the result.
// Nothing is saved when change fails.
func (a *app) mutate(w io.Writer, op, stage string, change func(*types.Bake) error) error {
	s, err := a.openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if err := change(s.bake); err != nil {
		a.logger.Debug("change rejected", "bake_id", s.id, "op", op, "stage", stage, "error", err)
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	a.logger.Debug("bake updated", "bake_id", s.id, "op", op, "stage", stage)
	return a.writeBake(w, s.id, s.bake)
}

// writeBake prints b as a table, or as JSON in --json mode.
func (a *app) writeBake(w io.Writer, id string, b *types.Bake) error {
	if a.jsonMode {
		return render.JSON(w, bakeOutput{BakeID: id, BakeArgs: b.Args()})
	}
	return render.Bake(w, b)
}
