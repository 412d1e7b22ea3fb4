package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, c.API.URL)
	assert.Equal(t, DefaultCategoryCacheTTL, c.API.CategoryCacheTTL)
	assert.Equal(t, DefaultMaxParallel, c.Downloads.MaxParallel)
	assert.Equal(t, DefaultSearch, c.Gallery.InitialSearch)
	assert.NotEmpty(t, c.StateFile)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "pixhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  url: http://catalog.local/api
  category_cache_ttl: 1m
downloads:
  max_parallel: 40
logging:
  level: debug
`), 0600))

	t.Setenv("PIXHUB_LOG_LEVEL", "warn")
	t.Setenv("PIXHUB_SEARCH_DEBOUNCE", "50ms")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://catalog.local/api", c.API.URL)
	assert.Equal(t, time.Minute, c.API.CategoryCacheTTL)
	assert.Equal(t, MaxParallel, c.Downloads.MaxParallel, "file value should be clamped")
	assert.Equal(t, "warn", c.Logging.Level, "environment wins over the file")
	assert.Equal(t, 50*time.Millisecond, c.Gallery.SearchDebounce)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PIXHUB_DOWNLOAD_DIR=/tmp/pix\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("PIXHUB_DOWNLOAD_DIR") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pix", c.Downloads.Dir)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.NoError(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
