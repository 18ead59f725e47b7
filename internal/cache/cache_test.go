package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndGet(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	url := "https://example.com/dist/tool-1.0.tar.gz?token=abc"
	assert.False(t, c.Has(url))
	assert.Empty(t, c.GetPath(url))

	src := filepath.Join(t.TempDir(), "download-123")
	require.NoError(t, os.WriteFile(src, []byte("archive"), 0644))

	stored, err := c.Store(url, src)
	require.NoError(t, err)

	assert.Equal(t, "tool-1.0.tar.gz", filepath.Base(stored))
	assert.True(t, c.Has(url))
	assert.Equal(t, stored, c.GetPath(url))
	assert.NoFileExists(t, src)

	assert.False(t, c.Has("https://example.com/dist/other.zip"))

	size, err := c.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(len("archive")), size)
}

func TestStore_Replaces(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	url := "https://example.com/a.zip"
	for _, content := range []string{"first", "second"} {
		src := filepath.Join(t.TempDir(), "dl")
		require.NoError(t, os.WriteFile(src, []byte(content), 0644))
		_, err := c.Store(url, src)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(c.GetPath(url))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "dl")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	_, err = c.Store("https://example.com/a.tar", src)
	require.NoError(t, err)

	require.NoError(t, c.Clear())
	assert.NoDirExists(t, dir)
}

func TestSize_AfterClear(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	require.NoError(t, c.Clear())

	size, err := c.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
	assert.False(t, c.Has("https://example.com/a.tar"))
}
