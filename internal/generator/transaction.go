package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrAlreadyCommitted is returned by a second Commit.
var ErrAlreadyCommitted = errors.New("transaction already committed")

const tempSuffix = ".wren-tmp"

// Transaction stages file writes and commits them together. Files that
// existed before the commit are restored if any later write fails; files the
// commit created are removed.
type Transaction struct {
	fs        afero.Fs
	staged    []stagedFile
	snapshots []snapshot
	committed bool
}

type stagedFile struct {
	path    string
	content []byte
	mode    os.FileMode
}

type snapshot struct {
	path    string
	existed bool
	content []byte
	mode    os.FileMode
}

// NewTransaction returns an empty transaction on fsys (the OS file system when nil).
func NewTransaction(fsys afero.Fs) *Transaction {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Transaction{fs: fsys}
}

// AddFile stages a write. Nothing touches the file system until Commit.
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.staged = append(t.staged, stagedFile{path: path, content: content, mode: mode})
}

// Len returns the number of staged writes.
func (t *Transaction) Len() int {
	return len(t.staged)
}

// Commit writes every staged file. Each file is written to a temporary
// sibling and renamed into place, so a reader never sees a half-written file.
func (t *Transaction) Commit() error {
	if t.committed {
		return ErrAlreadyCommitted
	}

	for _, f := range t.staged {
		snap, err := t.snapshot(f.path)
		if err != nil {
			t.Rollback()
			return err
		}
		t.snapshots = append(t.snapshots, snap)

		if err := t.write(f); err != nil {
			t.Rollback()
			return err
		}
	}

	t.committed = true
	return nil
}

// Rollback restores every file touched by an unfinished Commit. It is a no-op
// after a successful Commit, so it is safe to defer.
func (t *Transaction) Rollback() {
	if t.committed {
		return
	}
	for i := len(t.snapshots) - 1; i >= 0; i-- {
		s := t.snapshots[i]
		if s.existed {
			_ = afero.WriteFile(t.fs, s.path, s.content, s.mode) // best effort
		} else {
			_ = t.fs.Remove(s.path)
		}
		_ = t.fs.Remove(s.path + tempSuffix)
	}
	t.snapshots = nil
}

func (t *Transaction) snapshot(path string) (snapshot, error) {
	info, err := t.fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return snapshot{path: path}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content, err := afero.ReadFile(t.fs, path)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return snapshot{path: path, existed: true, content: content, mode: info.Mode().Perm()}, nil
}

func (t *Transaction) write(f stagedFile) error {
	dir := filepath.Dir(f.path)
	if err := t.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp := f.path + tempSuffix
	if err := afero.WriteFile(t.fs, tmp, f.content, f.mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", f.path, err)
	}
	if err := t.fs.Rename(tmp, f.path); err != nil {
		_ = t.fs.Remove(tmp)
		return fmt.Errorf("failed to write file %s: %w", f.path, err)
	}
	return nil
}
