package filetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
}

func TestWalkSkipsVCSAndDependencyDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"package.json",
		".env",
		"src/index.js",
		".git/HEAD",
		".git/refs/heads/main",
		"node_modules/left-pad/package.json",
		"web/node_modules/react/package.json",
		".github/workflows/ci.yml",
	)

	files, err := Walk(root, DefaultIgnores)
	require.NoError(t, err)
	assert.Equal(t, []string{
		".env",
		".github/workflows/ci.yml",
		"package.json",
		"src/index.js",
	}, files)
}

func TestWalkWithoutPatternsListsEverything(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", ".git/config")

	files, err := Walk(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".git/config", "a.txt"}, files)
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "missing"), DefaultIgnores)
	assert.Error(t, err)
}

func TestHasSuffixFold(t *testing.T) {
	files := []string{"services/api/Cargo.toml", "docker/dockerfile"}
	assert.True(t, HasSuffixFold(files, "cargo.toml"))
	assert.True(t, HasSuffixFold(files, "Dockerfile"))
	assert.False(t, HasSuffixFold(files, "go.mod"))
}
