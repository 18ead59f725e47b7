//go:build darwin

package extractor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Adapter = &PKGAdapter{}

type PKGAdapter struct {
	adapter
}

func NewPKG(dir Directory) *PKGAdapter {
	return &PKGAdapter{adapter: adapter{id: domain.KindPKG.String(), dir: dir}}
}

func (pe *PKGAdapter) IsAvailable() bool {
	for _, name := range []string{"pkgutil", "cpio"} {
		if _, err := exec.LookPath(name); err != nil {
			return false
		}
	}
	return true
}

// Extract expands the installer package and unpacks every Payload it
// contains into the output directory.
func (pe *PKGAdapter) Extract(path string) (*domain.Result, error) {
	dst, err := pe.dir.Path()
	if err != nil {
		return nil, err
	}

	expandDir, err := os.MkdirTemp("", "extractr-pkg-*")
	if err != nil {
		return nil, fmt.Errorf("pkg: failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(expandDir)

	// pkgutil refuses to expand into an existing directory.
	expanded := filepath.Join(expandDir, "expanded")
	if err := exec.Command("pkgutil", "--expand", path, expanded).Run(); err != nil {
		return nil, fmt.Errorf("pkg: failed to expand: %w", err)
	}

	if err := pe.extractPayloads(expanded, dst); err != nil {
		return nil, fmt.Errorf("pkg: %w", err)
	}

	return pe.finish(dst)
}

func (pe *PKGAdapter) extractPayloads(expandDir, dst string) error {
	entries, err := os.ReadDir(expandDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(expandDir, entry.Name())

		if entry.IsDir() {
			payloadPath := filepath.Join(path, "Payload")
			if _, err := os.Stat(payloadPath); err == nil {
				if err := pe.extractCPIO(payloadPath, dst); err != nil {
					return err
				}
			}
		} else if entry.Name() == "Payload" {
			if err := pe.extractCPIO(path, dst); err != nil {
				return err
			}
		}
	}

	return nil
}

func (pe *PKGAdapter) extractCPIO(payloadPath, dst string) error {
	file, err := os.Open(payloadPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var reader io.Reader = file

	header := make([]byte, 2)
	if _, err := io.ReadFull(file, header); err != nil {
		return err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	if header[0] == 0x1f && header[1] == 0x8b {
		gzr, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		defer gzr.Close()
		reader = gzr
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	cpioCmd := exec.Command("cpio", "-idm", "--quiet")
	cpioCmd.Dir = dst
	cpioCmd.Stdin = reader
	return cpioCmd.Run()
}
