// Package project locates the project a transaction is generated into.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrRootNotFound is returned when the project directory does not exist.
var ErrRootNotFound = errors.New("project directory not found")

// Marker files.
const (
	CargoManifest = "Cargo.toml"
	ConfigFile    = "wren.yml"
)

// Project is an existing project directory.
type Project struct {
	Root string
	fs   afero.Fs
}

// Open checks that root exists and is a directory. Nothing else is read, so
// Open is safe to call before any template work begins.
func Open(fsys afero.Fs, root string) (*Project, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if root == "" {
		root = "."
	}

	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s. Make sure you're in the correct directory", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat project directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory. Make sure you're in the correct directory", ErrRootNotFound, root)
	}

	return &Project{Root: root, fs: fsys}, nil
}

// Fs returns the file system the project lives on.
func (p *Project) Fs() afero.Fs {
	return p.fs
}

// Path resolves a project-relative path. Absolute paths are returned as-is.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

// IsCargoProject reports whether the root contains Cargo.toml.
func (p *Project) IsCargoProject() bool {
	return p.exists(CargoManifest)
}

// HasConfig reports whether the root contains wren.yml.
func (p *Project) HasConfig() bool {
	return p.exists(ConfigFile)
}

func (p *Project) exists(rel string) bool {
	_, err := p.fs.Stat(p.Path(rel))
	return err == nil
}
