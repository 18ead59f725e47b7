package extractor

import (
	"os"
	"strings"

	"github.com/teamcutter/extractr/internal/domain"
	"github.com/teamcutter/extractr/internal/resolver"
	"go.uber.org/zap"
)

// Extractor picks the adapter for an archive from its extension and runs it.
type Extractor struct {
	resolver  *resolver.Resolver
	logger    *zap.Logger
	directory func(id string) Directory
	disabled  map[string]bool
	construct func(kind domain.AdapterKind, dir Directory) domain.Adapter
}

type Option func(*Extractor)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

func WithResolver(r *resolver.Resolver) Option {
	return func(e *Extractor) {
		e.resolver = r
	}
}

// WithDirectory overrides how the output directory of each extraction is chosen.
func WithDirectory(fn func(id string) Directory) Option {
	return func(e *Extractor) {
		e.directory = fn
	}
}

// WithDisabled makes the named adapters report as unavailable.
func WithDisabled(ids ...string) Option {
	return func(e *Extractor) {
		for _, id := range ids {
			e.disabled[strings.ToLower(id)] = true
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		resolver:  resolver.New(),
		logger:    zap.NewNop(),
		directory: defaultDirectory,
		disabled:  make(map[string]bool),
		construct: newAdapter,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// defaultDirectory gives every extraction its own temporary directory,
// named extractr-<identifier>-* under os.TempDir.
func defaultDirectory(id string) Directory {
	return NewTemporaryDirectory("extractr-" + strings.ToLower(id) + "-*")
}

func (e *Extractor) ExtractFromFile(path string) (*domain.Result, error) {
	return e.ExtractFromFileInto(path, nil)
}

// ExtractFromFileInto behaves like ExtractFromFile but extracts into dir.
// A nil dir falls back to the extractor's default.
func (e *Extractor) ExtractFromFileInto(path string, dir Directory) (*domain.Result, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, &domain.FileNotFoundError{Path: path}
	}

	desc, err := e.resolver.Match(path)
	if err != nil {
		return nil, err
	}

	if dir == nil {
		dir = e.directory(desc.Kind.String())
	}

	a := e.construct(desc.Kind, dir)
	if a == nil {
		return nil, &domain.ExtensionNotSupportedError{Extension: desc.Extension}
	}

	logger := e.logger.With(zap.String("path", path), zap.String("adapter", a.Identifier()))
	logger.Debug("resolved adapter", zap.String("extension", desc.Extension))

	if e.disabled[strings.ToLower(a.Identifier())] || !a.IsAvailable() {
		return nil, &domain.AdapterNotAvailableError{Identifier: a.Identifier()}
	}

	result, err := a.Extract(path)
	if err != nil {
		logger.Debug("extraction failed", zap.Error(err))
		return nil, err
	}

	logger.Info("extracted archive", zap.String("output_dir", result.Dir), zap.Int("files", len(result.Files)))
	return result, nil
}

// IsAvailable reports whether the adapter of the given kind can run here.
func (e *Extractor) IsAvailable(kind domain.AdapterKind) bool {
	if e.disabled[strings.ToLower(kind.String())] {
		return false
	}
	a := e.construct(kind, nil)
	return a != nil && a.IsAvailable()
}

func (e *Extractor) Resolver() *resolver.Resolver {
	return e.resolver
}

func newAdapter(kind domain.AdapterKind, dir Directory) domain.Adapter {
	switch kind {
	case domain.KindTar:
		return NewTAR(dir)
	case domain.KindTarGz:
		return NewTARGz(dir)
	case domain.KindTarBz2:
		return NewTARBz2(dir)
	case domain.KindTarXz:
		return NewTARXz(dir)
	case domain.KindTarZst:
		return NewTARZst(dir)
	case domain.KindZip:
		return NewZIP(dir)
	case domain.KindGzip:
		return NewGzip(dir)
	case domain.KindBzip2:
		return NewBzip2(dir)
	case domain.KindXz:
		return NewXz(dir)
	case domain.KindZstd:
		return NewZstd(dir)
	case domain.KindSevenZip:
		return NewSevenZip(dir)
	case domain.KindDMG:
		return NewDMG(dir)
	case domain.KindPKG:
		return NewPKG(dir)
	default:
		return nil
	}
}
