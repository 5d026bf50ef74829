package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/wasmexport/internal/errors"
)

// RecursiveSuffix marks a path pattern that covers a directory and everything below it
const RecursiveSuffix = "/..."

// FileProcessor provides utilities for finding and removing source files
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, entry fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be entered
type DirectoryFilter func(path string, entry fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
}

// RustFileFilter accepts .rs files, leaving out files that are themselves expander output
func RustFileFilter(generatedSuffix string) FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		if entry.IsDir() {
			return false
		}
		name := entry.Name()
		return strings.HasSuffix(name, ".rs") && !strings.HasSuffix(name, generatedSuffix)
	}
}

// GeneratedFileFilter accepts expander output files
func GeneratedFileFilter(generatedSuffix string) FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		return !entry.IsDir() && strings.HasSuffix(entry.Name(), generatedSuffix)
	}
}

// DefaultDirectoryFilter skips build output, dependency and hidden directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"target":       true,
		"node_modules": true,
		"vendor":       true,
		"pkg":          true,
	}

	return func(path string, entry fs.DirEntry) bool {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles returns the files under rootDir accepted by the options, in lexical order.
// Without Recursive only the files directly inside rootDir are considered.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("walk", rootDir, err)
	}
	return matched, nil
}

// ResolvePatterns expands path patterns into files accepted by filter. A pattern is a
// file, a directory (its files only) or a directory followed by "/..." (its whole tree).
// Files named explicitly are kept even when filter would reject them. The result keeps
// pattern order and lists each file once.
func (fp *FileProcessor) ResolvePatterns(patterns []string, filter FileFilter) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		recursive := pattern == "..." || strings.HasSuffix(pattern, RecursiveSuffix)
		base := strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
		if base == "" {
			base = "."
		}
		base = filepath.Clean(base)

		info, err := os.Stat(base)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", base, err)
		}

		if !info.IsDir() {
			add(base)
			continue
		}

		matched, err := fp.WalkFiles(base, FileWalkOptions{
			FileFilter:      filter,
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, err
		}
		for _, path := range matched {
			add(path)
		}
	}

	return files, nil
}

// RemoveFiles deletes the given files and returns the ones actually removed
func (fp *FileProcessor) RemoveFiles(paths []string) ([]string, error) {
	removed := make([]string, 0, len(paths))
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		fp.fileReader.Invalidate(path)
		removed = append(removed, path)
	}
	return removed, nil
}

// FileReader returns the underlying FileReader
func (fp *FileProcessor) FileReader() *FileReader {
	return fp.fileReader
}
