package cli

import (
	"fmt"
	"strings"

	"github.com/toyz/wasmexport/internal/errors"
)

// Cleaner handles cleaning up expanded files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a cleaner for files ending in generatedSuffix
func NewCleaner(generatedSuffix string) *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(generatedSuffix),
	}
}

// CleanGeneratedFiles removes every expanded file matched by patterns and
// returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	files, err := c.scanner.ScanGenerated(patterns)
	if err != nil {
		return nil, errors.WrapWithOperation("clean", strings.Join(patterns, ", "), err)
	}

	removed, err := c.scanner.FileProcessor().RemoveFiles(files)
	if err != nil {
		return removed, fmt.Errorf("failed to clean generated files: %w", err)
	}
	return removed, nil
}
