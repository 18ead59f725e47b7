//go:build !darwin

package extractor

import (
	"fmt"

	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Adapter = &DMGAdapter{}

type DMGAdapter struct {
	adapter
}

func NewDMG(dir Directory) *DMGAdapter {
	return &DMGAdapter{adapter: adapter{id: domain.KindDMG.String(), dir: dir}}
}

// IsAvailable is false: mounting disk images needs hdiutil.
func (de *DMGAdapter) IsAvailable() bool {
	return false
}

func (de *DMGAdapter) Extract(string) (*domain.Result, error) {
	return nil, fmt.Errorf("dmg extraction is only supported on macOS")
}
