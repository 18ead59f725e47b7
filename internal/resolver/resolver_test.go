package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcutter/extractr/internal/domain"
)

func TestResolve(t *testing.T) {
	r := New()

	tests := []struct {
		ext  string
		want domain.AdapterKind
	}{
		{ext: "tar", want: domain.KindTar},
		{ext: "TAR", want: domain.KindTar},
		{ext: ".tar", want: domain.KindTar},
		{ext: "tar.gz", want: domain.KindTarGz},
		{ext: "tgz", want: domain.KindTarGz},
		{ext: "tar.bz2", want: domain.KindTarBz2},
		{ext: "txz", want: domain.KindTarXz},
		{ext: "Tar.Zst", want: domain.KindTarZst},
		{ext: "zip", want: domain.KindZip},
		{ext: "gz", want: domain.KindGzip},
		{ext: "7z", want: domain.KindSevenZip},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			desc, err := r.Resolve(tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.Kind)
		})
	}
}

func TestResolve_NotSupported(t *testing.T) {
	r := New()

	for _, ext := range []string{"rar", "xyz", ""} {
		_, err := r.Resolve(ext)
		require.ErrorIs(t, err, domain.ErrExtensionNotSupported)

		var notSupported *domain.ExtensionNotSupportedError
		require.ErrorAs(t, err, &notSupported)
		assert.Equal(t, ext, notSupported.Extension)
		assert.Contains(t, notSupported.Supported, "tar")
	}
}

func TestMatch(t *testing.T) {
	r := New()

	tests := []struct {
		path    string
		want    domain.AdapterKind
		wantExt string
	}{
		{path: "/tmp/archive.tar", want: domain.KindTar, wantExt: "tar"},
		{path: "/tmp/archive.TAR", want: domain.KindTar, wantExt: "tar"},
		{path: "release-1.2.3.tar.gz", want: domain.KindTarGz, wantExt: "tar.gz"},
		{path: "notes.txt.gz", want: domain.KindGzip, wantExt: "gz"},
		{path: "app-v1.0.zip", want: domain.KindZip, wantExt: "zip"},
		{path: "dir.with.dots/data.tzst", want: domain.KindTarZst, wantExt: "tzst"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			desc, err := r.Match(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.Kind)
			assert.Equal(t, tt.wantExt, desc.Extension)
		})
	}

	_, err := r.Match("/tmp/data.rar")
	require.ErrorIs(t, err, domain.ErrExtensionNotSupported)
	assert.ErrorContains(t, err, `"rar"`)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"tar.gz", "gz"}, Candidates("/a/b/Archive.TAR.GZ"))
	assert.Equal(t, []string{"zip"}, Candidates("archive.zip"))
	assert.Nil(t, Candidates("README"))
	assert.Nil(t, Candidates("trailing."))
}

func TestExtensions(t *testing.T) {
	exts := New().Extensions()
	require.NotEmpty(t, exts)

	for i := 1; i < len(exts); i++ {
		assert.GreaterOrEqual(t, len(exts[i-1]), len(exts[i]))
	}
	assert.Contains(t, exts, ".tar.gz")
	assert.Contains(t, exts, ".tar")
}

func TestNewWithTable(t *testing.T) {
	r := NewWithTable(map[string]domain.AdapterKind{".TAR": domain.KindTar})

	desc, err := r.Resolve("tar")
	require.NoError(t, err)
	assert.Equal(t, domain.KindTar, desc.Kind)

	_, err = r.Resolve("zip")
	require.ErrorIs(t, err, domain.ErrExtensionNotSupported)
	assert.Len(t, r.Table(), 1)
}
