package domain

import (
	"context"
)

// Adapter extracts one archive format.
type Adapter interface {
	// Identifier is the short name used in error messages, e.g. "Tar".
	Identifier() string
	// IsAvailable reports whether the decoding capability the adapter relies on is present.
	IsAvailable() bool
	Extract(path string) (*Result, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL, sha256 string) (string, error)
}

type Cache interface {
	Has(rawURL string) bool
	GetPath(rawURL string) string
	Store(rawURL, src string) (string, error)
	Size() (int64, error)
	Clear() error
}

type History interface {
	Record(rec *Record) error
	List(limit int) ([]Record, error)
	Clear() error
}
