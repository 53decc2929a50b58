package source_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvet/internal/domain"
	"docvet/internal/source"
)

func newFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestRead(t *testing.T) {
	src := source.New(newFS(t, map[string]string{"cards/a.json": `{"a":1}`}))

	data, err := src.Read("cards/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	_, err = src.Read("cards/missing.json")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "cards/missing.json")

	_, err = src.Read("cards")
	assert.ErrorIs(t, err, domain.ErrReadFailed)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestList(t *testing.T) {
	fs := newFS(t, map[string]string{
		"cards/b.json":        "{}",
		"cards/a.json":        "{}",
		"cards/readme.md":     "#",
		"cards/nested/c.json": "{}",
	})
	src := source.New(fs)

	paths, err := src.List("cards", ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{"cards/a.json", "cards/b.json"}, paths)
}

func TestList_EmptyAndMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("cards", 0o755))
	require.NoError(t, afero.WriteFile(fs, "file.json", []byte("{}"), 0o644))
	src := source.New(fs)

	paths, err := src.List("cards", ".json")
	require.NoError(t, err)
	assert.NotNil(t, paths)
	assert.Empty(t, paths)

	_, err = src.List("nope", ".json")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = src.List("file.json", ".json")
	assert.ErrorIs(t, err, domain.ErrReadFailed)
}
