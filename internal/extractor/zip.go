package extractor

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Adapter = &ZIPAdapter{}

type ZIPAdapter struct {
	adapter
}

func NewZIP(dir Directory) *ZIPAdapter {
	return &ZIPAdapter{adapter: adapter{id: domain.KindZip.String(), dir: dir}}
}

func (ze *ZIPAdapter) IsAvailable() bool {
	return true
}

func (ze *ZIPAdapter) Extract(path string) (*domain.Result, error) {
	dst, root, err := ze.output()
	if err != nil {
		return nil, err
	}
	defer root.Close()

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ze.extractFile(f, root); err != nil {
			return nil, fmt.Errorf("zip: %w", err)
		}
	}

	return ze.finish(dst)
}

func (ze *ZIPAdapter) extractFile(f *zip.File, root *os.Root) error {
	name, err := localName(f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return mkdirAll(root, name)
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	return writeFile(root, name, rc, f.Mode())
}
