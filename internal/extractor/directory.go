package extractor

import (
	"fmt"
	"os"
)

// Directory provides the output directory an adapter extracts into.
type Directory interface {
	Path() (string, error)
}

// TemporaryDirectory creates a fresh directory under os.TempDir on first
// use and returns the same path afterwards.
type TemporaryDirectory struct {
	pattern string
	path    string
}

func NewTemporaryDirectory(pattern string) *TemporaryDirectory {
	return &TemporaryDirectory{pattern: pattern}
}

func (d *TemporaryDirectory) Path() (string, error) {
	if d.path != "" {
		return d.path, nil
	}
	path, err := os.MkdirTemp("", d.pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	d.path = path
	return path, nil
}

// SpecificDirectory extracts into a fixed path. Existing content is kept.
type SpecificDirectory struct {
	path string
}

func NewSpecificDirectory(path string) *SpecificDirectory {
	return &SpecificDirectory{path: path}
}

func (d *SpecificDirectory) Path() (string, error) {
	if err := os.MkdirAll(d.path, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return d.path, nil
}
