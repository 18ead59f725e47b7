package domain

import (
	"path/filepath"
	"time"
)

type AdapterKind int

const (
	KindTar AdapterKind = iota + 1
	KindTarGz
	KindTarBz2
	KindTarXz
	KindTarZst
	KindZip
	KindGzip
	KindBzip2
	KindXz
	KindZstd
	KindSevenZip
	KindDMG
	KindPKG
)

var kindNames = map[AdapterKind]string{
	KindTar:      "Tar",
	KindTarGz:    "TarGz",
	KindTarBz2:   "TarBz2",
	KindTarXz:    "TarXz",
	KindTarZst:   "TarZst",
	KindZip:      "Zip",
	KindGzip:     "Gzip",
	KindBzip2:    "Bzip2",
	KindXz:       "Xz",
	KindZstd:     "Zstd",
	KindSevenZip: "SevenZip",
	KindDMG:      "DMG",
	KindPKG:      "PKG",
}

// String returns the identifier of the adapter responsible for the kind.
func (k AdapterKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// AdapterDescriptor binds a registered extension to the adapter kind handling it.
type AdapterDescriptor struct {
	Kind      AdapterKind
	Extension string
}

// Result lists the files written by one extraction.
type Result struct {
	Dir   string
	Files []string
}

// Paths returns the absolute path of every extracted file.
func (r *Result) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		paths = append(paths, filepath.Join(r.Dir, f))
	}
	return paths
}

type RecordStatus string

const (
	StatusExtracted RecordStatus = "extracted"
	StatusFailed    RecordStatus = "failed"
)

// Record is one entry of the extraction history.
type Record struct {
	ID        string       `json:"id"`
	Archive   string       `json:"archive"`
	Adapter   string       `json:"adapter"`
	OutputDir string       `json:"output_dir"`
	Files     int          `json:"files"`
	Status    RecordStatus `json:"status"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
