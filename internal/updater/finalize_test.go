package updater

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeStaged(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"glide.exe":                "old executable",
		"glide.exe" + StagedSuffix: "new executable",
		"plain.txt":                "not staged",
	})

	require.NoError(t, FinalizeStaged(dir))

	data, err := os.ReadFile(filepath.Join(dir, "glide.exe"))
	require.NoError(t, err)
	assert.Equal(t, "new executable", string(data))

	assert.NoFileExists(t, filepath.Join(dir, "glide.exe"+StagedSuffix))

	data, err = os.ReadFile(filepath.Join(dir, "plain.txt"))
	require.NoError(t, err)
	assert.Equal(t, "not staged", string(data))
}

func TestFinalizeStagedNested(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"bin/tool" + StagedSuffix: "new tool",
	})

	require.NoError(t, FinalizeStaged(dir))

	data, err := os.ReadFile(filepath.Join(dir, "bin", "tool"))
	require.NoError(t, err)
	assert.Equal(t, "new tool", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "bin", "tool"+StagedSuffix))
}

func TestFinalizeStagedNothingToDo(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})

	require.NoError(t, FinalizeStaged(dir))
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
}

func TestCleanupOld(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"glide.exe" + oldSuffix: "displaced",
		"keep.txt":              "stays",
	})

	CleanupOld(dir)

	assert.NoFileExists(t, filepath.Join(dir, "glide.exe"+oldSuffix))
	assert.FileExists(t, filepath.Join(dir, "keep.txt"))
}
