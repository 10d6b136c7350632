package generator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// ExecuteOptions configures Execute.
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	// ShowDiff prints each file's diff before its result line.
	ShowDiff bool
	Writer   io.Writer // defaults to os.Stdout
}

// Differ is implemented by operations that can describe their change as a diff.
type Differ interface {
	Diff(color bool) string
}

// Execute validates every operation, then stages them into one Transaction
// and commits it. Nothing is written unless every operation validates.
func Execute(ctx context.Context, fsys afero.Fs, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := "✓ "
	if opts.DryRun {
		prefix = "✓ [DRY RUN] "
	} else {
		tx := NewTransaction(fsys)
		defer tx.Rollback()

		for _, op := range ops {
			if err := op.Stage(tx); err != nil {
				return fmt.Errorf("execution failed: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
	}

	color := ColorEnabled(opts.Writer)
	for _, op := range ops {
		if d, ok := op.(Differ); ok && opts.ShowDiff {
			if diff := d.Diff(color); diff != "" {
				fmt.Fprint(opts.Writer, diff)
			}
		}
		fmt.Fprintf(opts.Writer, "%s%s\n", prefix, op.Description())
	}

	return nil
}
