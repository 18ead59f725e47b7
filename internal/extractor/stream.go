package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Adapter = &StreamAdapter{}

// StreamAdapter decompresses a single compressed file (".gz", ".xz", ...)
// into one output file named after the archive minus its extension.
type StreamAdapter struct {
	adapter
	codec codec
}

func NewGzip(dir Directory) *StreamAdapter {
	return &StreamAdapter{adapter: adapter{id: domain.KindGzip.String(), dir: dir}, codec: gzipCodec}
}

func NewBzip2(dir Directory) *StreamAdapter {
	return &StreamAdapter{adapter: adapter{id: domain.KindBzip2.String(), dir: dir}, codec: bzip2Codec}
}

func NewXz(dir Directory) *StreamAdapter {
	return &StreamAdapter{adapter: adapter{id: domain.KindXz.String(), dir: dir}, codec: xzCodec}
}

func NewZstd(dir Directory) *StreamAdapter {
	return &StreamAdapter{adapter: adapter{id: domain.KindZstd.String(), dir: dir}, codec: zstdCodec}
}

func (se *StreamAdapter) IsAvailable() bool {
	return true
}

func (se *StreamAdapter) Extract(path string) (*domain.Result, error) {
	dst, root, err := se.output()
	if err != nil {
		return nil, err
	}
	defer root.Close()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, cleanup, err := se.codec.reader(file)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if err := writeFile(root, outputName(path), reader, info.Mode()); err != nil {
		return nil, fmt.Errorf("%s: %w", se.codec.name, err)
	}

	return se.finish(dst)
}

func outputName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == ".." {
		return "data"
	}
	return name
}
