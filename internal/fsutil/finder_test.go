package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestFindFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	a := filepath.Join(root, "a.hcl")
	b := filepath.Join(root, "nested", "b.YAML")
	c := filepath.Join(root, "nested", "c.yml")
	touch(t, a)
	touch(t, b)
	touch(t, c)
	touch(t, filepath.Join(root, "nested", "readme.md"))

	// --- Act ---
	files, err := FindFiles([]string{root, a, filepath.Join(root, "missing")}, ".hcl", ".yaml", ".yml")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, files)

	files, err = FindFiles([]string{root}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestFindFilesByExtension_RequiresExtension(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir()) })
}
