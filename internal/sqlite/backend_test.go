package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orieldave/half-baked/pkg/types"
)

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	t := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func attachTestBackend(t *testing.T, dataDir string) *Backend {
	t.Helper()
	b := NewBackend(nil)
	b.now = stepClock()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := NewBackend(nil)
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	require.NoError(t, b.Attach(config))
	_, err := os.Stat(filepath.Join(tmpDir, dbFileName))
	assert.NoError(t, err, "database file created")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
	require.NoError(t, b.Detach())
}

func TestBackend_AttachRejectsBadConfig(t *testing.T) {
	b := NewBackend(nil)
	assert.ErrorIs(t, b.Attach(types.Config{DataDir: t.TempDir()}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "cookie"}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "detach is idempotent")

	_, err := b.Save("", types.DefaultBakeArgs("loaf"))
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.Load("x")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.Latest()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.List()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.Delete("x"), types.ErrStoreDetached)
}

func TestBackend_SaveAndLoad(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())

	start := time.Date(2024, time.January, 6, 9, 30, 0, 0, time.UTC)
	bake, err := types.NewBake(types.DefaultBakeArgs("saturday"))
	require.NoError(t, err)
	require.NoError(t, bake.ChangeTimes(0, &start, nil, ""))

	id, err := b.Save("", bake.Args())
	require.NoError(t, err)
	assert.Len(t, id, 36, "generated ID is a UUID")

	got, err := b.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "saturday", got.Name)
	require.Len(t, got.Ferments, 4)

	rebuilt, err := types.NewBake(got)
	require.NoError(t, err)
	first, last := rebuilt.Bounds()
	assert.True(t, start.Equal(*first))
	assert.True(t, start.Add(46*time.Hour).Equal(*last))
}

func TestBackend_SaveUpdatesExisting(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())

	id, err := b.Save("", types.DefaultBakeArgs("v1"))
	require.NoError(t, err)
	before, err := b.Latest()
	require.NoError(t, err)

	again, err := b.Save(id, types.BakeArgs{Name: "v2"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	after, err := b.Latest()
	require.NoError(t, err)
	assert.Equal(t, "v2", after.Args.Name)
	assert.Empty(t, after.Args.Ferments)
	assert.Equal(t, before.CreatedAt, after.CreatedAt, "creation time is kept")
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	all, err := b.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBackend_SaveWithCallerID(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())

	id, err := b.Save("sunday-loaf", types.DefaultBakeArgs("sunday"))
	require.NoError(t, err)
	assert.Equal(t, "sunday-loaf", id)

	_, err = b.Load("sunday-loaf")
	assert.NoError(t, err)
}

func TestBackend_LoadMissing(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())

	_, err := b.Load("nope")
	assert.ErrorIs(t, err, types.ErrBakeNotFound)
	_, err = b.Load("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
	_, err = b.Latest()
	assert.ErrorIs(t, err, types.ErrBakeNotFound)
}

func TestBackend_ListOrder(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())

	first, err := b.Save("", types.BakeArgs{Name: "first"})
	require.NoError(t, err)
	second, err := b.Save("", types.BakeArgs{Name: "second"})
	require.NoError(t, err)
	_, err = b.Save(first, types.BakeArgs{Name: "first again"})
	require.NoError(t, err)

	recs, err := b.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, first, recs[0].BakeID)
	assert.Equal(t, second, recs[1].BakeID)

	latest, err := b.Latest()
	require.NoError(t, err)
	assert.Equal(t, "first again", latest.Args.Name)
}

func TestBackend_Delete(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())

	id, err := b.Save("", types.DefaultBakeArgs("loaf"))
	require.NoError(t, err)

	require.NoError(t, b.Delete(id))
	_, err = b.Load(id)
	assert.ErrorIs(t, err, types.ErrBakeNotFound)
	assert.ErrorIs(t, b.Delete(id), types.ErrBakeNotFound)
	assert.ErrorIs(t, b.Delete(""), types.ErrInvalidID)
}

func TestBackend_JSONLIsSourceOfTruth(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	keep, err := b.Save("", types.DefaultBakeArgs("keep"))
	require.NoError(t, err)
	drop, err := b.Save("", types.DefaultBakeArgs("drop"))
	require.NoError(t, err)
	require.NoError(t, b.Delete(drop))
	require.NoError(t, b.Detach())

	data, err := os.ReadFile(filepath.Join(dir, bakesJSONL))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], keep)
	assert.Contains(t, lines[0], `"ferment_list"`)

	reopened := attachTestBackend(t, dir)
	args, err := reopened.Load(keep)
	require.NoError(t, err)
	assert.Equal(t, "keep", args.Name)
	_, err = reopened.Load(drop)
	assert.ErrorIs(t, err, types.ErrBakeNotFound)
}

func TestBackend_SkipsMalformedJSONL(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		`{"bake_id":"good","args":{"name":"good","ferment_list":[]},"created_at":"2024-01-01T08:00:00Z","updated_at":"2024-01-01T08:00:00Z"}`,
		`not json`,
		``,
		`{"args":{"name":"no id"}}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, bakesJSONL), []byte(content), 0o644))

	b := attachTestBackend(t, dir)
	recs, err := b.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "good", recs[0].BakeID)
}
