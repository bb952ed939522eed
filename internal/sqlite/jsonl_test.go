package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONL_MissingFile(t *testing.T) {
	recs, err := readJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestWriteJSONL_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, bakesJSONL)
	in := []json.RawMessage{
		json.RawMessage(`{"bake_id":"a"}`),
		json.RawMessage(`{"bake_id":"b"}`),
	}

	require.NoError(t, writeJSONL(path, in))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"bake_id\":\"a\"}\n{\"bake_id\":\"b\"}\n", string(data))

	out, err := readJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	leftovers, err := filepath.Glob(filepath.Join(dir, jsonlTempGlob))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp file renamed into place")
}

func TestWriteJSONL_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), bakesJSONL)
	require.NoError(t, writeJSONL(path, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
