package config

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/toyz/wasmexport/internal/errors"
)

// FileNames are the configuration files looked for, in order of preference
var FileNames = []string{"wasmexport.yaml", "wasmexport.yml", "wasmexport.toml"}

// Resolver locates the configuration that applies to a working directory
type Resolver struct {
	startDir string
}

// NewResolver creates a resolver that searches upward from startDir.
// An empty startDir means the current working directory.
func NewResolver(startDir string) *Resolver {
	return &Resolver{startDir: startDir}
}

// Resolve loads explicit when it is set; otherwise it loads the nearest
// configuration file, falling back to the defaults when there is none.
// The returned path is empty when the defaults are used.
func (r *Resolver) Resolve(explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	path, found, err := r.Find()
	if err != nil {
		return nil, "", err
	}
	if !found {
		return Default(), "", nil
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// Find walks from the start directory up to the filesystem root and returns
// the first configuration file it sees
func (r *Resolver) Find() (string, bool, error) {
	dir := r.startDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", false, errors.WrapFileSystemError("resolve", "working directory", err)
		}
		dir = wd
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, errors.WrapFileSystemError("resolve", dir, err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, true, nil
			}
			if err != nil && !stderrors.Is(err, os.ErrNotExist) {
				return "", false, errors.WrapFileSystemError("stat", candidate, err)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", false, nil
}
