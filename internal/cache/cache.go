package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// DiskCache keeps downloaded archives keyed by their source URL.
type DiskCache struct {
	sync.RWMutex
	dir string
}

func New(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) GetPath(rawURL string) string {
	c.RLock()
	defer c.RUnlock()
	return c.getPath(rawURL)
}

// getPath returns the cached file for rawURL, or "" when there is none.
func (c *DiskCache) getPath(rawURL string) string {
	entries, err := os.ReadDir(c.entryDir(rawURL))
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() {
			return filepath.Join(c.entryDir(rawURL), e.Name())
		}
	}
	return ""
}

func (c *DiskCache) Has(rawURL string) bool {
	return c.GetPath(rawURL) != ""
}

// Store moves src into the cache under rawURL, named after the URL's last
// path segment so the archive extension is kept.
func (c *DiskCache) Store(rawURL, src string) (string, error) {
	c.Lock()
	defer c.Unlock()

	destDir := c.entryDir(rawURL)
	if err := os.RemoveAll(destDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	destPath := filepath.Join(destDir, fileName(rawURL))
	if err := os.Rename(src, destPath); err != nil {
		return "", err
	}

	return destPath, nil
}

func (c *DiskCache) Size() (int64, error) {
	c.RLock()
	defer c.RUnlock()

	var size int64

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == c.dir && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})

	return size, err
}

func (c *DiskCache) Clear() error {
	c.Lock()
	defer c.Unlock()

	return os.RemoveAll(c.dir)
}

func (c *DiskCache) entryDir(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:8]))
}

func fileName(rawURL string) string {
	u := rawURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	name := path.Base(u)
	if name == "." || name == "/" || name == "" || strings.HasSuffix(u, "/") {
		return "archive"
	}
	return name
}
