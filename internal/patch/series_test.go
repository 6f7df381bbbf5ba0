package patch

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestParseSeries(t *testing.T) {
	t.Parallel()

	data := []byte(`# leading comment
fix-build.patch
upstream/cve-2011-0001.patch -p0

debian/local-paths.patch # trailing comment
`)
	entries, err := ParseSeries(data)
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Name: "fix-build.patch", Strip: 1},
		{Name: "upstream/cve-2011-0001.patch", Strip: 0},
		{Name: "debian/local-paths.patch", Strip: 1},
	}, entries)

	require.Equal(t, "", entries[0].Topic())
	require.Equal(t, "upstream", entries[1].Topic())
}

func TestParseSeriesRejectsUnknownOptions(t *testing.T) {
	t.Parallel()

	_, err := ParseSeries([]byte("foo.patch -R\n"))
	require.ErrorContains(t, err, "unsupported option")

	_, err = ParseSeries([]byte("foo.patch -px\n"))
	require.ErrorContains(t, err, "invalid strip level")
}

func TestReadSeries(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "debian/patches/series", []byte("a.patch\ntopic/b.patch\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "debian/patches/a.patch", []byte(formattedPatch), 0o644))
	require.NoError(t, afero.WriteFile(fs, "debian/patches/topic/b.patch", []byte("--- a/x\n+++ b/x\n"), 0o644))

	series, err := ReadSeries(fs, "debian/patches/series")
	require.NoError(t, err)
	require.Len(t, series, 2)

	require.Equal(t, "debian/patches/a.patch", series[0].Path)
	require.Equal(t, "", series[0].Topic)
	require.Equal(t, "Fix the build with newer compilers", series[0].Subject)

	require.Equal(t, "debian/patches/topic/b.patch", series[1].Path)
	require.Equal(t, "topic", series[1].Topic)
	require.Equal(t, "b", series[1].Subject)
}

func TestReadSeriesMissingPatch(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "debian/patches/series", []byte("gone.patch\n"), 0o644))

	_, err := ReadSeries(fs, "debian/patches/series")
	require.ErrorContains(t, err, "gone.patch")
}

func TestWriteSeries(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("debian/patches", 0o755))
	require.NoError(t, WriteSeries(fs, "debian/patches/series", []string{"a.patch", "topic/b.patch"}))

	data, err := afero.ReadFile(fs, "debian/patches/series")
	require.NoError(t, err)
	require.Equal(t, "a.patch\ntopic/b.patch\n", string(data))

	exists, err := afero.Exists(fs, "debian/patches/series.tmp")
	require.NoError(t, err)
	require.False(t, exists)
}
