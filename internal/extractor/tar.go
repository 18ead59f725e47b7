package extractor

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Adapter = &TARAdapter{}

// TARAdapter extracts tar archives. Without a codec it detects the
// compression from the file header, so plain and compressed tarballs
// both work under ".tar".
type TARAdapter struct {
	adapter
	codec *codec
}

func NewTAR(dir Directory) *TARAdapter {
	return &TARAdapter{adapter: adapter{id: domain.KindTar.String(), dir: dir}}
}

func NewTARGz(dir Directory) *TARAdapter {
	return newCompressedTAR(domain.KindTarGz, gzipCodec, dir)
}

func NewTARBz2(dir Directory) *TARAdapter {
	return newCompressedTAR(domain.KindTarBz2, bzip2Codec, dir)
}

func NewTARXz(dir Directory) *TARAdapter {
	return newCompressedTAR(domain.KindTarXz, xzCodec, dir)
}

func NewTARZst(dir Directory) *TARAdapter {
	return newCompressedTAR(domain.KindTarZst, zstdCodec, dir)
}

func newCompressedTAR(kind domain.AdapterKind, c codec, dir Directory) *TARAdapter {
	return &TARAdapter{adapter: adapter{id: kind.String(), dir: dir}, codec: &c}
}

// IsAvailable is always true: tar and every codec used here are compiled in.
func (te *TARAdapter) IsAvailable() bool {
	return true
}

func (te *TARAdapter) Extract(path string) (*domain.Result, error) {
	dst, root, err := te.output()
	if err != nil {
		return nil, err
	}
	defer root.Close()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader
	var cleanup func()
	if te.codec != nil {
		reader, cleanup, err = te.codec.reader(file)
	} else {
		reader, cleanup, err = sniff(file)
	}
	if err != nil {
		return nil, fmt.Errorf("tar: %w", err)
	}
	defer cleanup()

	if err := untar(reader, root); err != nil {
		return nil, fmt.Errorf("tar: %w", err)
	}

	return te.finish(dst)
}

func untar(r io.Reader, root *os.Root) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		name, err := localName(header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := mkdirAll(root, name); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(root, name, tr, header.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(root, name, header.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			if err := writeHardlink(root, name, header.Linkname); err != nil {
				return err
			}
		}
	}
}
