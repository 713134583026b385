package updater

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressCall struct {
	current int
	total   int
	name    string
}

func recordProgress(calls *[]progressCall) ProgressFunc {
	return func(current, total int, name string) {
		*calls = append(*calls, progressCall{current, total, name})
	}
}

// writeZip builds a zip archive from entry name -> content. A nil
// content marks a directory entry.
func writeZip(t *testing.T, path string, entries []struct {
	name    string
	content []byte
}) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if e.content != nil {
			_, err = w.Write(e.content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "update.zip")
	dest := filepath.Join(dir, "scratch")

	entries := []struct {
		name    string
		content []byte
	}{
		{"app/", nil},
		{"app/main.bin", []byte("binary payload")},
		{"app/data/strings.txt", []byte("hello")},
		{"readme.txt", []byte("notes")},
	}
	writeZip(t, archive, entries)

	var calls []progressCall
	err := ExtractArchive(archive, dest, recordProgress(&calls))
	require.NoError(t, err)

	// One progress call per entry, 1-based, constant total, in archive
	// order. The directory entry advances the index too.
	require.Len(t, calls, len(entries))
	for i, c := range calls {
		assert.Equal(t, i+1, c.current)
		assert.Equal(t, len(entries), c.total)
		assert.Equal(t, entries[i].name, c.name)
	}

	data, err := os.ReadFile(filepath.Join(dest, "app", "main.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("binary payload"), data)

	data, err = os.ReadFile(filepath.Join(dest, "app", "data", "strings.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	info, err := os.Stat(filepath.Join(dest, "app"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExtractZipCreatesParents(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "update.zip")

	// No explicit directory entries at all.
	writeZip(t, archive, []struct {
		name    string
		content []byte
	}{
		{"a/b/c/deep.txt", []byte("deep")},
	})

	dest := filepath.Join(dir, "scratch")
	require.NoError(t, ExtractArchive(archive, dest, nil))

	data, err := os.ReadFile(filepath.Join(dest, "a", "b", "c", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("deep"), data)
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "update.zip")
	writeZip(t, archive, []struct {
		name    string
		content []byte
	}{
		{"../escape.txt", []byte("nope")},
	})

	err := ExtractArchive(archive, filepath.Join(dir, "scratch"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchive)
}

func TestExtractZipCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "broken.zip")
	require.NoError(t, os.WriteFile(archive, []byte("this is not a zip"), 0644))

	err := ExtractArchive(archive, filepath.Join(dir, "scratch"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchive)
}

func TestExtractZipMissingArchive(t *testing.T) {
	dir := t.TempDir()
	err := ExtractArchive(filepath.Join(dir, "nope.zip"), filepath.Join(dir, "scratch"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchive)
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "update.tar.gz")

	f, err := os.Create(archive)
	require.NoError(t, err)
	gzw := gzip.NewWriter(f)
	tw := tar.NewWriter(gzw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "app/",
		Typeflag: tar.TypeDir,
		Mode:     0755,
	}))
	content := []byte("tar payload")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "app/main.bin",
		Typeflag: tar.TypeReg,
		Mode:     0755,
		Size:     int64(len(content)),
	}))
	_, err = tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "scratch")
	var calls []progressCall
	require.NoError(t, ExtractArchive(archive, dest, recordProgress(&calls)))

	require.Len(t, calls, 2)
	assert.Equal(t, progressCall{1, 2, "app/"}, calls[0])
	assert.Equal(t, progressCall{2, 2, "app/main.bin"}, calls[1])

	data, err := os.ReadFile(filepath.Join(dest, "app", "main.bin"))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestEntryTarget(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		wantErr bool
	}{
		{"plain", "app/file.txt", false},
		{"dot segments resolved inside", "app/../file.txt", false},
		{"escape", "../file.txt", true},
		{"bare dotdot", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entryTarget("/scratch", tt.entry)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArchive)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
