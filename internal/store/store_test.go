package store

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok := s.Get(KeySavedCollection)
	assert.False(t, ok, "fresh store should not hold the collection key")

	require.NoError(t, s.Set(KeySavedCollection, `[{"id":1}]`))
	v, ok := s.Get(KeySavedCollection)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)

	require.NoError(t, s.Set(KeySavedCollection, `[]`))
	v, _ = s.Get(KeySavedCollection)
	assert.Equal(t, `[]`, v)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	assert.Equal(t, 2, m.Writes())
}

func TestPreferences(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	exerciseStore(t, NewPreferences(app))
}

func TestFile_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pixhub.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	exerciseStore(t, f)
	require.NoError(t, f.Set(KeyAuthToken, "secret"))

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	v, ok := reopened.Get(KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "secret", v)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFile_MalformedStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixhub.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, ok := f.Get(KeySavedCollection)
	assert.False(t, ok)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw), "opening must not rewrite the file")
}
