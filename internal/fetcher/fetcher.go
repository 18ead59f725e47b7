package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Fetcher = &HTTPFetcher{}

// HTTPFetcher downloads remote archives so they can be extracted locally.
type HTTPFetcher struct {
	client     *http.Client
	outputDir  string
	extensions []string
	quiet      bool
}

// New returns a fetcher writing into outputDir. extensions lists the
// archive suffixes to preserve in file names, longest first.
func New(outputDir string, timeout time.Duration, extensions []string) *HTTPFetcher {
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		outputDir:  outputDir,
		extensions: extensions,
	}
}

// Quiet disables the download progress bar.
func (f *HTTPFetcher) Quiet() *HTTPFetcher {
	f.quiet = true
	return f
}

// IsRemote reports whether arg should be fetched rather than read from disk.
func IsRemote(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, checksum string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %s: %w", rawURL, err)
	}

	dst := filepath.Join(f.outputDir, f.filename(u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(f.outputDir, 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(f.outputDir, ".download-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	var bar *progressbar.ProgressBar
	if f.quiet {
		bar = progressbar.DefaultBytesSilent(resp.ContentLength)
	} else {
		bar = progressbar.DefaultBytes(resp.ContentLength, fmt.Sprintf("Downloading %s", path.Base(u.Path)))
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h, bar), resp.Body); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if checksum != "" {
		actual := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(actual, checksum) {
			return "", fmt.Errorf("checksum mismatch: expected %s, got %s", checksum, actual)
		}
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}

	return dst, nil
}

// Checksum returns the hex SHA-256 of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (f *HTTPFetcher) filename(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "download"
	}

	ext := ""
	lower := strings.ToLower(base)
	for _, e := range f.extensions {
		if strings.HasSuffix(lower, e) {
			ext = base[len(base)-len(e):]
			break
		}
	}
	if ext == "" {
		ext = path.Ext(base)
	}

	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s-%d%s", stem, time.Now().UnixNano(), ext)
}
