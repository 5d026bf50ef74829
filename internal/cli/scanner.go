package cli

import (
	"github.com/toyz/wasmexport/internal/utils"
)

// DirectoryScanner resolves path patterns into Rust source files
type DirectoryScanner struct {
	fileProcessor   *utils.FileProcessor
	generatedSuffix string
}

// NewDirectoryScanner creates a scanner that ignores files ending in generatedSuffix
func NewDirectoryScanner(generatedSuffix string) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor:   utils.NewFileProcessor(),
		generatedSuffix: generatedSuffix,
	}
}

// ScanFiles returns the Rust sources matched by patterns, in pattern order.
// Supports "./..." style patterns for recursive scanning.
func (s *DirectoryScanner) ScanFiles(patterns []string) ([]string, error) {
	return s.fileProcessor.ResolvePatterns(patterns, utils.RustFileFilter(s.generatedSuffix))
}

// ScanGenerated returns the expanded files matched by patterns
func (s *DirectoryScanner) ScanGenerated(patterns []string) ([]string, error) {
	return s.fileProcessor.ResolvePatterns(patterns, utils.GeneratedFileFilter(s.generatedSuffix))
}

// FileReader returns the reader shared by everything reading the scanned files
func (s *DirectoryScanner) FileReader() *utils.FileReader {
	return s.fileProcessor.FileReader()
}

// FileProcessor returns the underlying file processor
func (s *DirectoryScanner) FileProcessor() *utils.FileProcessor {
	return s.fileProcessor
}
