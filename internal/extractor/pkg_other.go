//go:build !darwin

package extractor

import (
	"fmt"

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
	return false
}

func (pe *PKGAdapter) Extract(string) (*domain.Result, error) {
	return nil, fmt.Errorf("pkg extraction is only supported on macOS")
}
