package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/wasmexport/internal/errors"
)

// FileReader reads source files, caching their contents until they change on disk
type FileReader struct {
	cache *FileCache[[]byte]
}

// NewFileReader creates a new FileReader with an empty cache
func NewFileReader() *FileReader {
	return &FileReader{cache: NewFileCache[[]byte]()}
}

// ReadFile returns the contents of filePath
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := CleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.cache.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}

	// a file removed between read and stat is simply not cached
	_ = fr.cache.Set(cleanPath, content)
	return content, nil
}

// Invalidate drops filePath from the cache
func (fr *FileReader) Invalidate(filePath string) {
	if cleanPath, err := CleanPath(filePath); err == nil {
		fr.cache.Delete(cleanPath)
	}
}

// CacheStats returns statistics about the content cache
func (fr *FileReader) CacheStats() CacheStats {
	return fr.cache.Stats()
}

// CleanPath cleans filePath, rejecting an empty path
func CleanPath(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.New(errors.FileSystemErrorCode, "file path cannot be empty")
	}
	return filepath.Clean(filePath), nil
}
