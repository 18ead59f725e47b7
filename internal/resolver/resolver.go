package resolver

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/teamcutter/extractr/internal/domain"
)

var defaultTable = map[string]domain.AdapterKind{
	"tar":     domain.KindTar,
	"tar.gz":  domain.KindTarGz,
	"tgz":     domain.KindTarGz,
	"tar.bz2": domain.KindTarBz2,
	"tbz2":    domain.KindTarBz2,
	"tbz":     domain.KindTarBz2,
	"tar.xz":  domain.KindTarXz,
	"txz":     domain.KindTarXz,
	"tar.zst": domain.KindTarZst,
	"tzst":    domain.KindTarZst,
	"zip":     domain.KindZip,
	"gz":      domain.KindGzip,
	"bz2":     domain.KindBzip2,
	"xz":      domain.KindXz,
	"zst":     domain.KindZstd,
	"7z":      domain.KindSevenZip,
	"dmg":     domain.KindDMG,
	"pkg":     domain.KindPKG,
}

// Resolver maps file extensions to the adapter responsible for them.
// The table is fixed at construction and never mutated.
type Resolver struct {
	table map[string]domain.AdapterKind
}

func New() *Resolver {
	return &Resolver{table: defaultTable}
}

// NewWithTable builds a resolver over a custom table. Keys are normalized
// the same way lookups are.
func NewWithTable(table map[string]domain.AdapterKind) *Resolver {
	t := make(map[string]domain.AdapterKind, len(table))
	for ext, kind := range table {
		t[normalize(ext)] = kind
	}
	return &Resolver{table: t}
}

func (r *Resolver) Resolve(extension string) (domain.AdapterDescriptor, error) {
	ext := normalize(extension)
	kind, ok := r.table[ext]
	if !ok {
		return domain.AdapterDescriptor{}, &domain.ExtensionNotSupportedError{
			Extension: ext,
			Supported: r.supported(),
		}
	}
	return domain.AdapterDescriptor{Kind: kind, Extension: ext}, nil
}

// Match resolves the adapter for a file path. A registered compound
// suffix such as "tar.gz" wins over the last segment alone.
func (r *Resolver) Match(path string) (domain.AdapterDescriptor, error) {
	candidates := Candidates(path)
	for _, ext := range candidates {
		if desc, err := r.Resolve(ext); err == nil {
			return desc, nil
		}
	}

	var ext string
	if len(candidates) > 0 {
		ext = candidates[len(candidates)-1]
	}
	return domain.AdapterDescriptor{}, &domain.ExtensionNotSupportedError{
		Extension: ext,
		Supported: r.supported(),
	}
}

// Extensions returns every registered extension with a leading dot,
// longest first so that suffix matching picks compound extensions.
func (r *Resolver) Extensions() []string {
	exts := make([]string, 0, len(r.table))
	for ext := range r.table {
		exts = append(exts, "."+ext)
	}
	slices.SortFunc(exts, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return exts
}

func (r *Resolver) Table() []domain.AdapterDescriptor {
	descs := make([]domain.AdapterDescriptor, 0, len(r.table))
	for ext, kind := range r.table {
		descs = append(descs, domain.AdapterDescriptor{Kind: kind, Extension: ext})
	}
	slices.SortFunc(descs, func(a, b domain.AdapterDescriptor) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return strings.Compare(a.Extension, b.Extension)
	})
	return descs
}

func (r *Resolver) supported() []string {
	exts := make([]string, 0, len(r.table))
	for ext := range r.table {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Candidates returns the lookup keys derived from a path: the last two
// dot-separated segments when present, then the last one.
func Candidates(path string) []string {
	base := strings.ToLower(filepath.Base(path))
	last := strings.LastIndex(base, ".")
	if last < 0 || last == len(base)-1 {
		return nil
	}

	single := base[last+1:]
	prev := strings.LastIndex(base[:last], ".")
	if prev < 0 {
		return []string{single}
	}
	return []string{base[prev+1:], single}
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
