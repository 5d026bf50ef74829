package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryScannerScanFiles(t *testing.T) {
	root := writeSources(t, map[string]string{
		"lib.rs":              "",
		"lib.expanded.rs":     "",
		"api/routes.rs":       "",
		"target/debug/out.rs": "",
		"README.md":           "",
	})

	s := NewDirectoryScanner(".expanded.rs")

	files, err := s.ScanFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "api", "routes.rs"),
		filepath.Join(root, "lib.rs"),
	}, files)

	generated, err := s.ScanGenerated([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "lib.expanded.rs")}, generated)
}

func TestCleanerRemovesExpandedFiles(t *testing.T) {
	root := writeSources(t, map[string]string{
		"lib.rs":                 "",
		"lib.expanded.rs":        "",
		"api/routes.expanded.rs": "",
	})

	removed, err := NewCleaner(".expanded.rs").CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.NoFileExists(t, filepath.Join(root, "lib.expanded.rs"))
	assert.NoFileExists(t, filepath.Join(root, "api", "routes.expanded.rs"))
	assert.FileExists(t, filepath.Join(root, "lib.rs"))
}

func TestCleanerMissingDirectory(t *testing.T) {
	_, err := NewCleaner(".expanded.rs").CleanGeneratedFiles([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clean")
}
