package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// Operation is a file system change that is validated before anything is written.
//
// Validate decides what the operation will do and may prompt through a
// Resolver. Stage adds the decided change to a Transaction. Description is the
// line printed once the operation has run (or would have, in a dry run).
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Stage(tx *Transaction) error
	Description() string
}

// Action is what a WriteFileOp decided to do during Validate.
type Action int

const (
	ActionCreate Action = iota
	ActionOverwrite
	ActionSkip
	ActionUnchanged
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "Create"
	case ActionOverwrite:
		return "Overwrite"
	case ActionSkip:
		return "Skip"
	case ActionUnchanged:
		return "Unchanged"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// WriteFileOp writes Content to Path.
//
// An existing file with identical content is left alone. An existing file with
// different content is overwritten when force is set; otherwise Resolver
// decides, and with no Resolver the conflict is an error.
type WriteFileOp struct {
	Fs       afero.Fs
	Path     string
	Content  []byte // may be empty, must not be nil
	Mode     fs.FileMode
	Resolver *Resolver

	action   Action
	existing []byte
}

func (op *WriteFileOp) fs() afero.Fs {
	if op.Fs == nil {
		op.Fs = afero.NewOsFs()
	}
	return op.Fs
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	existing, err := afero.ReadFile(op.fs(), op.Path)
	if errors.Is(err, os.ErrNotExist) {
		op.action = ActionCreate
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", op.Path, err)
	}
	op.existing = existing

	switch {
	case bytes.Equal(existing, op.Content):
		op.action = ActionUnchanged
		return nil
	case force:
		op.action = ActionOverwrite
		return nil
	case op.Resolver == nil:
		return fmt.Errorf("file already exists: %s", op.Path)
	}

	res, err := op.Resolver.Resolve(op.Path, existing, op.Content)
	if err != nil {
		return err
	}
	switch res {
	case Overwrite:
		op.action = ActionOverwrite
	case Skip:
		op.action = ActionSkip
	default:
		return fmt.Errorf("%w: %s", ErrCancelled, op.Path)
	}
	return nil
}

func (op *WriteFileOp) Stage(tx *Transaction) error {
	switch op.action {
	case ActionCreate, ActionOverwrite:
		mode := op.Mode
		if mode == 0 {
			mode = 0o644
		}
		tx.AddFile(op.Path, op.Content, mode)
	}
	return nil
}

// Action reports the decision made by the last Validate.
func (op *WriteFileOp) Action() Action {
	return op.action
}

// Diff returns the diff between the file on disk and Content, as seen by the
// last Validate.
func (op *WriteFileOp) Diff(color bool) string {
	return Diff("a/"+op.Path, "b/"+op.Path, op.existing, op.Content, DiffOptions{Color: color})
}

func (op *WriteFileOp) Description() string {
	switch op.action {
	case ActionSkip:
		return fmt.Sprintf("Skip %s (kept existing file)", op.Path)
	case ActionUnchanged:
		return fmt.Sprintf("Unchanged %s", op.Path)
	default:
		return fmt.Sprintf("%s %s (%d bytes)", op.action, op.Path, len(op.Content))
	}
}
