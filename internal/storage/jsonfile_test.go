package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestJSONFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	f := NewJSONFile(path)

	in := []record{{ID: "a", Price: 1.5}, {ID: "b", Price: 200}}
	require.NoError(t, f.Save(in))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "tmp file should be renamed away")

	var out []record
	require.NoError(t, f.Load(&out))
	assert.Equal(t, in, out)
}

func TestJSONFile_SaveIndentsWithTwoSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	f := NewJSONFile(path)

	require.NoError(t, f.Save([]record{{ID: "a&b", Price: 2}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": \"a&b\",\n    \"price\": 2\n  }\n]\n", string(raw))
}

func TestJSONFile_LoadMissing(t *testing.T) {
	f := NewJSONFile(filepath.Join(t.TempDir(), "nope.json"))

	var out []record
	err := f.Load(&out)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestJSONFile_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var out []record
	err := NewJSONFile(path).Load(&out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestJSONFile_Ping(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, NewJSONFile(filepath.Join(dir, "products.json")).Ping())
	assert.Error(t, NewJSONFile(filepath.Join(dir, "missing", "products.json")).Ping())
}
