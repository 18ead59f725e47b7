//go:build darwin

package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/teamcutter/extractr/internal/domain"
)

var _ domain.Adapter = &DMGAdapter{}

type DMGAdapter struct {
	adapter
}

func NewDMG(dir Directory) *DMGAdapter {
	return &DMGAdapter{adapter: adapter{id: domain.KindDMG.String(), dir: dir}}
}

func (de *DMGAdapter) IsAvailable() bool {
	_, err := exec.LookPath("hdiutil")
	return err == nil
}

// Extract mounts the image read-only and copies its tree into the output
// directory. Symlinks leading outside the image are skipped.
func (de *DMGAdapter) Extract(path string) (*domain.Result, error) {
	dst, root, err := de.output()
	if err != nil {
		return nil, err
	}
	defer root.Close()

	mountPoint, err := os.MkdirTemp("", "extractr-dmg-*")
	if err != nil {
		return nil, fmt.Errorf("dmg: failed to create mount point: %w", err)
	}
	defer os.RemoveAll(mountPoint)

	attachCmd := exec.Command("hdiutil", "attach", "-nobrowse", "-readonly", "-mountpoint", mountPoint, path)
	if err := attachCmd.Run(); err != nil {
		return nil, fmt.Errorf("dmg: failed to mount: %w", err)
	}
	defer exec.Command("hdiutil", "detach", mountPoint, "-quiet").Run()

	if err := copyDir(mountPoint, root); err != nil {
		return nil, fmt.Errorf("dmg: %w", err)
	}

	return de.finish(dst)
}

func copyDir(src string, root *os.Root) error {
	return filepath.Walk(src, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		info, err := os.Lstat(path)
		if err != nil {
			return err
		}

		if info.Mode()&os.ModeSymlink != 0 {
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if localLink(relPath, linkTarget) != nil {
				return nil
			}
			return writeSymlink(root, relPath, linkTarget)
		}

		if info.IsDir() {
			return mkdirAll(root, relPath)
		}

		return copyFile(path, root, relPath, info.Mode())
	})
}

func copyFile(src string, root *os.Root, name string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	return writeFile(root, name, srcFile, mode)
}
