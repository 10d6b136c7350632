package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/anchor"
	"github.com/simonhull/firebird-suite/wren/internal/output"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

// TemplateCmd creates and returns the 'template' command group
func TemplateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect the base templates and their anchors",
		Long: `Inspect the base templates that transactions are patched into.

Use --dir to read an override directory instead of the built-in templates.
Files missing from the directory fall back to the built-in ones.`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Template override directory")

	cmd.AddCommand(templateShowCmd(&dir))
	cmd.AddCommand(templateCheckCmd(&dir))
	return cmd
}

func templateShowCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:       "show <transaction|state>",
		Short:     "Print a base template",
		Args:      cobra.ExactArgs(1),
		ValidArgs: templates.Kinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := templates.Load(afero.NewOsFs(), *dir)
			if err != nil {
				return err
			}
			text, err := set.Text(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func templateCheckCmd(dir *string) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report which anchors a template file contains",
		Long: `Report which anchors of a template kind occur in a file.

Use this after editing a template override to make sure every insertion
point is still found. Anchors matched only after ignoring whitespace
differences are marked as tolerant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := afero.NewOsFs()

			set, err := templates.Load(fsys, *dir)
			if err != nil {
				return err
			}
			if _, err := set.Text(kind); err != nil {
				return err
			}

			data, err := afero.ReadFile(fsys, args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			text := string(data)
			missing := 0
			for _, r := range anchor.Inspect(text, set.Anchors.Anchors(kind)) {
				if !r.Found {
					missing++
					output.Error(fmt.Sprintf("%s not found", r.Anchor))
					continue
				}
				match := "exact"
				if !r.Span.Exact {
					match = "tolerant"
				}
				line := strings.Count(text[:r.Span.Start], "\n") + 1
				output.Success(fmt.Sprintf("%s at line %d (%s)", r.Anchor, line, match))
			}

			if missing > 0 {
				return fmt.Errorf("%w: %d of %d anchors missing in %s",
					anchor.ErrNotFound, missing, len(set.Anchors.Anchors(kind)), args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", templates.Transaction, "Template kind (transaction or state)")
	return cmd
}
