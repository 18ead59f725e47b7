package extractor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/teamcutter/extractr/internal/domain"
)

type adapter struct {
	id  string
	dir Directory
}

func (a *adapter) Identifier() string {
	return a.id
}

// output returns the output directory and a root confined to it.
func (a *adapter) output() (string, *os.Root, error) {
	dst, err := a.dir.Path()
	if err != nil {
		return "", nil, err
	}
	root, err := os.OpenRoot(dst)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", a.id, err)
	}
	return dst, root, nil
}

// finish enumerates what was written under dir.
func (a *adapter) finish(dir string) (*domain.Result, error) {
	files, err := listFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list output: %w", a.id, err)
	}
	return &domain.Result{Dir: dir, Files: files}, nil
}

// listFiles returns regular files and symlinks under dir, relative to dir.
func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// localName converts an archive entry name to a path that stays under the
// output root.
func localName(name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsafePath, name)
	}
	return local, nil
}

// localLink checks that a symlink at name pointing to linkname resolves
// under the output root.
func localLink(name, linkname string) error {
	target := filepath.FromSlash(linkname)
	if filepath.IsAbs(target) || !filepath.IsLocal(filepath.Join(filepath.Dir(name), target)) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrUnsafePath, name, linkname)
	}
	return nil
}

// The helpers below write through root, which refuses to follow symlinks
// leading outside the output directory.

func writeFile(root *os.Root, name string, r io.Reader, mode os.FileMode) error {
	if err := mkdirParent(root, name); err != nil {
		return err
	}
	outFile, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}

func writeSymlink(root *os.Root, name, linkname string) error {
	if err := localLink(name, linkname); err != nil {
		return err
	}
	if err := replace(root, name); err != nil {
		return err
	}
	return root.Symlink(linkname, name)
}

func writeHardlink(root *os.Root, name, linkname string) error {
	old, err := localName(linkname)
	if err != nil {
		return err
	}
	if err := replace(root, name); err != nil {
		return err
	}
	return root.Link(old, name)
}

// replace prepares name for a new link, removing whatever is there.
func replace(root *os.Root, name string) error {
	if err := mkdirParent(root, name); err != nil {
		return err
	}
	if err := root.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func mkdirParent(root *os.Root, name string) error {
	return mkdirAll(root, filepath.Dir(name))
}

func mkdirAll(root *os.Root, dir string) error {
	if dir == "." {
		return nil
	}
	return root.MkdirAll(dir, 0755)
}
