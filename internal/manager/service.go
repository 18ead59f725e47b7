package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/teamcutter/extractr/internal/domain"
	"github.com/teamcutter/extractr/internal/extractor"
	"github.com/teamcutter/extractr/internal/fetcher"
)

// Outcome is the result of extracting one source argument.
type Outcome struct {
	Source  string
	Archive string
	Adapter string
	Result  *domain.Result
	Err     error
}

type Format struct {
	Extension  string
	Identifier string
	Available  bool
}

type Manager struct {
	extractor   *extractor.Extractor
	fetcher     domain.Fetcher
	cache       domain.Cache
	history     domain.History
	logger      *zap.Logger
	outputDir   string
	maxParallel int

	// fetches collapses concurrent downloads of the same URL.
	fetches singleflight.Group
}

func New(
	ext *extractor.Extractor,
	fetcher domain.Fetcher,
	cache domain.Cache,
	history domain.History,
	logger *zap.Logger,
	outputDir string,
	maxParallel int,
) *Manager {
	if maxParallel < 1 {
		maxParallel = 1
	}

	return &Manager{
		extractor:   ext,
		fetcher:     fetcher,
		cache:       cache,
		history:     history,
		logger:      logger,
		outputDir:   outputDir,
		maxParallel: maxParallel,
	}
}

// Extract runs every source independently and returns one outcome per
// source, in input order. A failing source does not stop the others.
func (m *Manager) Extract(ctx context.Context, sources []string, checksum string) []Outcome {
	outcomes := make([]Outcome, len(sources))
	dirs := m.outputDirs(sources)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(len(sources), m.maxParallel))

	for i, src := range sources {
		g.Go(func() error {
			outcomes[i] = m.extractOne(gctx, src, dirs[i], checksum)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (m *Manager) extractOne(ctx context.Context, src, outDir, checksum string) Outcome {
	out := Outcome{Source: src, Archive: src}
	logger := m.logger.With(zap.String("source", src))

	if fetcher.IsRemote(src) {
		if m.fetcher == nil {
			out.Err = fmt.Errorf("remote archives are not enabled")
			return out
		}
		v, err, _ := m.fetches.Do(src+"\x00"+checksum, func() (any, error) {
			return m.fetch(ctx, logger, src, checksum)
		})
		if err != nil {
			out.Err = fmt.Errorf("failed to fetch: %w", err)
			m.record(logger, out)
			return out
		}
		out.Archive = v.(string)
	}

	if desc, err := m.extractor.Resolver().Match(out.Archive); err == nil {
		out.Adapter = desc.Kind.String()
	}

	var dir extractor.Directory
	if outDir != "" {
		dir = extractor.NewSpecificDirectory(outDir)
	}

	out.Result, out.Err = m.extractor.ExtractFromFileInto(out.Archive, dir)
	m.record(logger, out)
	return out
}

// fetch returns a local copy of rawURL, reusing the cached download when
// it exists and still matches checksum.
func (m *Manager) fetch(ctx context.Context, logger *zap.Logger, rawURL, checksum string) (string, error) {
	if m.cache != nil && m.cache.Has(rawURL) {
		path := m.cache.GetPath(rawURL)
		if checksum == "" {
			logger.Debug("using cached archive", zap.String("path", path))
			return path, nil
		}
		if actual, err := fetcher.Checksum(path); err == nil && strings.EqualFold(actual, checksum) {
			logger.Debug("using cached archive", zap.String("path", path))
			return path, nil
		}
	}

	path, err := m.fetcher.Fetch(ctx, rawURL, checksum)
	if err != nil {
		return "", err
	}
	logger.Debug("fetched archive", zap.String("path", path))

	if m.cache == nil {
		return path, nil
	}

	cached, err := m.cache.Store(rawURL, path)
	if err != nil {
		logger.Warn("failed to cache archive", zap.Error(err))
		return path, nil
	}
	return cached, nil
}

// CacheSize returns the bytes held by downloaded archives.
func (m *Manager) CacheSize() (int64, error) {
	if m.cache == nil {
		return 0, nil
	}
	return m.cache.Size()
}

func (m *Manager) ClearCache() error {
	if m.cache == nil {
		return nil
	}
	return m.cache.Clear()
}

func (m *Manager) record(logger *zap.Logger, out Outcome) {
	if m.history == nil {
		return
	}

	rec := &domain.Record{
		Archive: out.Archive,
		Adapter: out.Adapter,
		Status:  domain.StatusExtracted,
	}
	if out.Result != nil {
		rec.OutputDir = out.Result.Dir
		rec.Files = len(out.Result.Files)
	}
	if out.Err != nil {
		rec.Status = domain.StatusFailed
		rec.Error = out.Err.Error()
	}

	if err := m.history.Record(rec); err != nil {
		logger.Warn("failed to record extraction", zap.Error(err))
	}
}

// outputDirs assigns each source its own directory under the configured
// output root, named after the archive. Duplicate names get a numeric suffix.
func (m *Manager) outputDirs(sources []string) []string {
	dirs := make([]string, len(sources))
	if m.outputDir == "" {
		return dirs
	}

	used := make(map[string]bool)
	for i, src := range sources {
		stem := m.stem(src)
		name := stem
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", stem, n)
		}
		used[name] = true
		dirs[i] = filepath.Join(m.outputDir, name)
	}
	return dirs
}

func (m *Manager) stem(src string) string {
	base := filepath.Base(src)
	if fetcher.IsRemote(src) {
		base = src[strings.LastIndex(src, "/")+1:]
		if i := strings.IndexAny(base, "?#"); i >= 0 {
			base = base[:i]
		}
	}

	lower := strings.ToLower(base)
	for _, ext := range m.extractor.Resolver().Extensions() {
		if strings.HasSuffix(lower, ext) && len(base) > len(ext) {
			return base[:len(base)-len(ext)]
		}
	}
	if base == "" {
		return "archive"
	}
	return base
}

// Formats lists every registered extension with its adapter and whether
// the adapter can run here.
func (m *Manager) Formats() []Format {
	table := m.extractor.Resolver().Table()
	formats := make([]Format, 0, len(table))
	for _, desc := range table {
		formats = append(formats, Format{
			Extension:  desc.Extension,
			Identifier: desc.Kind.String(),
			Available:  m.extractor.IsAvailable(desc.Kind),
		})
	}
	return formats
}

func (m *Manager) History(limit int) ([]domain.Record, error) {
	if m.history == nil {
		return nil, nil
	}
	return m.history.List(limit)
}

func (m *Manager) ClearHistory() error {
	if m.history == nil {
		return nil
	}
	return m.history.Clear()
}
