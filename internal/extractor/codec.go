package extractor

import (
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// codec opens a decompressing reader over a single compressed stream.
type codec struct {
	name  string
	magic []byte
	open  func(r io.Reader) (io.Reader, func(), error)
}

var (
	zstdCodec = codec{
		name:  "zstd",
		magic: []byte{0x28, 0xb5, 0x2f, 0xfd},
		open: func(r io.Reader) (io.Reader, func(), error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, zr.Close, nil
		},
	}

	gzipCodec = codec{
		name:  "gzip",
		magic: []byte{0x1f, 0x8b},
		open: func(r io.Reader) (io.Reader, func(), error) {
			gzr, err := gzip.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return gzr, func() { gzr.Close() }, nil
		},
	}

	xzCodec = codec{
		name:  "xz",
		magic: []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
		open: func(r io.Reader) (io.Reader, func(), error) {
			xzr, err := xz.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return xzr, func() {}, nil
		},
	}

	bzip2Codec = codec{
		name:  "bzip2",
		magic: []byte{0x42, 0x5a, 0x68},
		open: func(r io.Reader) (io.Reader, func(), error) {
			return bzip2.NewReader(r), func() {}, nil
		},
	}
)

var sniffOrder = []codec{zstdCodec, gzipCodec, xzCodec, bzip2Codec}

func (c codec) reader(r io.Reader) (io.Reader, func(), error) {
	dr, closeFn, err := c.open(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return dr, closeFn, nil
}

// sniff picks a codec from the leading magic bytes of file and rewinds it.
// A file with no known signature is returned as is.
// https://gist.github.com/leommoore/f9e57ba2aa4bf197ebc5
func sniff(file *os.File) (io.Reader, func(), error) {
	header := make([]byte, 6)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, nil, err
	}
	header = header[:n]
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	for _, c := range sniffOrder {
		if bytes.HasPrefix(header, c.magic) {
			return c.reader(file)
		}
	}
	return file, func() {}, nil
}
