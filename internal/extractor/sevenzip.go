package extractor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Adapter = &SevenZipAdapter{}

// 7-Zip ships under different command names depending on the distribution.
var sevenZipCommands = []string{"7zz", "7z", "7za"}

type SevenZipAdapter struct {
	adapter
	lookPath func(string) (string, error)
}

func NewSevenZip(dir Directory) *SevenZipAdapter {
	return &SevenZipAdapter{
		adapter:  adapter{id: domain.KindSevenZip.String(), dir: dir},
		lookPath: exec.LookPath,
	}
}

func (sz *SevenZipAdapter) command() (string, bool) {
	for _, name := range sevenZipCommands {
		if path, err := sz.lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

func (sz *SevenZipAdapter) IsAvailable() bool {
	_, ok := sz.command()
	return ok
}

func (sz *SevenZipAdapter) Extract(path string) (*domain.Result, error) {
	bin, ok := sz.command()
	if !ok {
		return nil, &domain.AdapterNotAvailableError{Identifier: sz.id}
	}

	dst, err := sz.dir.Path()
	if err != nil {
		return nil, err
	}

	out, err := exec.Command(bin, "x", "-y", "-o"+dst, path).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("7z: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return sz.finish(dst)
}
