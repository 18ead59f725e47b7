package manager

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamcutter/extractr/internal/cache"
	"github.com/teamcutter/extractr/internal/domain"
	"github.com/teamcutter/extractr/internal/extractor"
	"github.com/teamcutter/extractr/internal/fetcher"
)

type memoryHistory struct {
	mu      sync.Mutex
	records []domain.Record
}

func (h *memoryHistory) Record(rec *domain.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, *rec)
	return nil
}

func (h *memoryHistory) List(int) ([]domain.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.records, nil
}

func (h *memoryHistory) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return nil
}

type stubFetcher struct {
	path string
	err  error
}

func (s *stubFetcher) Fetch(context.Context, string, string) (string, error) {
	return s.path, s.err
}

func writeTar(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	tw := tar.NewWriter(f)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
}

func TestExtract_Batch(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	good := filepath.Join(src, "good.tar")
	writeTar(t, good, map[string]string{"hello.txt": "hi"})
	unsupported := filepath.Join(src, "data.rar")
	require.NoError(t, os.WriteFile(unsupported, []byte("rar"), 0644))
	missing := filepath.Join(src, "missing.zip")

	history := &memoryHistory{}
	m := New(extractor.New(), nil, nil, history, zap.NewNop(), out, 2)

	outcomes := m.Extract(t.Context(), []string{good, unsupported, missing}, "")
	require.Len(t, outcomes, 3)

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, "Tar", outcomes[0].Adapter)
	assert.Equal(t, filepath.Join(out, "good"), outcomes[0].Result.Dir)
	assert.Equal(t, []string{"hello.txt"}, outcomes[0].Result.Files)

	assert.ErrorIs(t, outcomes[1].Err, domain.ErrExtensionNotSupported)
	assert.ErrorIs(t, outcomes[2].Err, domain.ErrFileNotFound)

	records, err := m.History(0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	statuses := make(map[string]domain.RecordStatus)
	for _, rec := range records {
		statuses[rec.Archive] = rec.Status
	}
	assert.Equal(t, domain.StatusExtracted, statuses[good])
	assert.Equal(t, domain.StatusFailed, statuses[unsupported])
	assert.Equal(t, domain.StatusFailed, statuses[missing])
}

func TestExtract_DuplicateNames(t *testing.T) {
	out := t.TempDir()
	first := filepath.Join(t.TempDir(), "app.tar")
	second := filepath.Join(t.TempDir(), "app.tar")
	writeTar(t, first, map[string]string{"one.txt": "1"})
	writeTar(t, second, map[string]string{"two.txt": "2"})

	m := New(extractor.New(), nil, nil, nil, zap.NewNop(), out, 4)
	outcomes := m.Extract(t.Context(), []string{first, second}, "")

	require.NoError(t, outcomes[0].Err)
	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, filepath.Join(out, "app"), outcomes[0].Result.Dir)
	assert.Equal(t, filepath.Join(out, "app-2"), outcomes[1].Result.Dir)
	assert.Equal(t, []string{"one.txt"}, outcomes[0].Result.Files)
	assert.Equal(t, []string{"two.txt"}, outcomes[1].Result.Files)
}

func TestExtract_DuplicateNamesAvoidExistingStems(t *testing.T) {
	out := t.TempDir()
	src := t.TempDir()
	suffixed := filepath.Join(src, "a-2.tar")
	plain := filepath.Join(src, "a.tar")
	require.NoError(t, os.Mkdir(filepath.Join(src, "other"), 0755))
	nested := filepath.Join(src, "other", "a.tar")
	writeTar(t, suffixed, map[string]string{"one.txt": "1"})
	writeTar(t, plain, map[string]string{"two.txt": "2"})
	writeTar(t, nested, map[string]string{"three.txt": "3"})

	m := New(extractor.New(), nil, nil, nil, zap.NewNop(), out, 1)
	outcomes := m.Extract(t.Context(), []string{suffixed, plain, nested}, "")

	dirs := make(map[string]bool)
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		dirs[o.Result.Dir] = true
	}
	assert.Len(t, dirs, 3)
	assert.Equal(t, filepath.Join(out, "a-2"), outcomes[0].Result.Dir)
	assert.Equal(t, filepath.Join(out, "a"), outcomes[1].Result.Dir)
	assert.Equal(t, filepath.Join(out, "a-3"), outcomes[2].Result.Dir)
	assert.Equal(t, []string{"one.txt"}, outcomes[0].Result.Files)
	assert.Equal(t, []string{"two.txt"}, outcomes[1].Result.Files)
	assert.Equal(t, []string{"three.txt"}, outcomes[2].Result.Files)
}

func TestExtract_Remote(t *testing.T) {
	local := filepath.Join(t.TempDir(), "remote-123.tar")
	writeTar(t, local, map[string]string{"hello.txt": "hi"})
	out := t.TempDir()

	t.Run("fetched archive is extracted", func(t *testing.T) {
		m := New(extractor.New(), &stubFetcher{path: local}, nil, nil, zap.NewNop(), out, 1)

		outcomes := m.Extract(t.Context(), []string{"https://example.com/dist/remote.tar?sig=abc"}, "")
		require.NoError(t, outcomes[0].Err)
		assert.Equal(t, local, outcomes[0].Archive)
		assert.Equal(t, filepath.Join(out, "remote"), outcomes[0].Result.Dir)
	})

	t.Run("fetch failure is reported", func(t *testing.T) {
		history := &memoryHistory{}
		m := New(extractor.New(), &stubFetcher{err: errors.New("boom")}, nil, history, zap.NewNop(), "", 1)

		outcomes := m.Extract(t.Context(), []string{"https://example.com/remote.tar"}, "")
		require.Error(t, outcomes[0].Err)
		assert.ErrorContains(t, outcomes[0].Err, "boom")
		require.Len(t, history.records, 1)
		assert.Equal(t, domain.StatusFailed, history.records[0].Status)
	})

	t.Run("no fetcher configured", func(t *testing.T) {
		m := New(extractor.New(), nil, nil, nil, zap.NewNop(), "", 1)

		outcomes := m.Extract(t.Context(), []string{"https://example.com/remote.tar"}, "")
		assert.ErrorContains(t, outcomes[0].Err, "not enabled")
	})
}

func TestExtract_RemoteCached(t *testing.T) {
	downloaded := filepath.Join(t.TempDir(), "download-1.tar")
	writeTar(t, downloaded, map[string]string{"hello.txt": "hi"})
	sum, err := fetcher.Checksum(downloaded)
	require.NoError(t, err)

	c, err := cache.New(t.TempDir())
	require.NoError(t, err)
	url := "https://example.com/dist/tool.tar"
	out := t.TempDir()

	m := New(extractor.New(), &stubFetcher{path: downloaded}, c, nil, zap.NewNop(), out, 1)
	first := m.Extract(t.Context(), []string{url}, sum)
	require.NoError(t, first[0].Err)
	assert.Equal(t, c.GetPath(url), first[0].Archive)
	assert.NoFileExists(t, downloaded)

	// The second run must not touch the network.
	m = New(extractor.New(), &stubFetcher{err: errors.New("offline")}, c, nil, zap.NewNop(), out, 1)
	second := m.Extract(t.Context(), []string{url}, sum)
	require.NoError(t, second[0].Err)
	assert.Equal(t, first[0].Result.Files, second[0].Result.Files)

	size, err := m.CacheSize()
	require.NoError(t, err)
	assert.Positive(t, size)

	mismatch := m.Extract(t.Context(), []string{url}, "deadbeef")
	assert.ErrorContains(t, mismatch[0].Err, "offline")

	require.NoError(t, m.ClearCache())
	assert.False(t, c.Has(url))
}

type countingFetcher struct {
	dir   string
	data  []byte
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(context.Context, string, string) (string, error) {
	n := f.calls.Add(1)
	time.Sleep(50 * time.Millisecond)
	path := filepath.Join(f.dir, fmt.Sprintf("download-%d.tar", n))
	if err := os.WriteFile(path, f.data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func TestExtract_SameURLFetchedOnce(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "tool.tar")
	writeTar(t, archive, map[string]string{"hello.txt": "hi"})
	data, err := os.ReadFile(archive)
	require.NoError(t, err)

	c, err := cache.New(t.TempDir())
	require.NoError(t, err)
	f := &countingFetcher{dir: t.TempDir(), data: data}
	out := t.TempDir()
	url := "https://example.com/dist/tool.tar"

	m := New(extractor.New(), f, c, nil, zap.NewNop(), out, 2)
	outcomes := m.Extract(t.Context(), []string{url, url}, "")

	require.NoError(t, outcomes[0].Err)
	require.NoError(t, outcomes[1].Err)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, filepath.Join(out, "tool"), outcomes[0].Result.Dir)
	assert.Equal(t, filepath.Join(out, "tool-2"), outcomes[1].Result.Dir)
	assert.Equal(t, []string{"hello.txt"}, outcomes[0].Result.Files)
	assert.Equal(t, []string{"hello.txt"}, outcomes[1].Result.Files)
}

func TestFormats(t *testing.T) {
	m := New(extractor.New(extractor.WithDisabled("Zip")), nil, nil, nil, zap.NewNop(), "", 1)

	available := make(map[string]bool)
	for _, f := range m.Formats() {
		available[f.Extension] = f.Available
	}

	assert.True(t, available["tar"])
	assert.True(t, available["tar.gz"])
	assert.False(t, available["zip"])
	assert.NotContains(t, available, "rar")
}

func TestClearHistory(t *testing.T) {
	history := &memoryHistory{records: []domain.Record{{Archive: "a.tar"}}}
	m := New(extractor.New(), nil, nil, history, zap.NewNop(), "", 1)

	require.NoError(t, m.ClearHistory())
	records, err := m.History(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
