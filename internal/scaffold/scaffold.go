package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/exec"
	"github.com/simonhull/firebird-suite/wren/internal/fields"
	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/logger"
	"github.com/simonhull/firebird-suite/wren/internal/output"
	"github.com/simonhull/firebird-suite/wren/internal/patch"
	"github.com/simonhull/firebird-suite/wren/internal/project"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

// ErrEmptyName is returned when no transaction name is given.
var ErrEmptyName = errors.New("transaction name is required")

// Options describe one generation run. Empty DefaultType and Strategy fall
// back to the project config.
type Options struct {
	ProjectRoot string
	ConfigFile  string

	Name        string
	FieldTokens []string
	DefaultType string
	Strategy    string

	DryRun   bool
	ShowDiff bool
	// Format runs the configured format command in the project root after
	// the files are written.
	Format bool
	Writer io.Writer // operation lines, prompts and formatter output, defaults to stdout
}

// Report describes what a run produced.
type Report struct {
	Name        string
	Fields      fields.List
	Transaction patch.Result
	State       patch.Result
	Files       []string
	Templates   string
	Config      *config.Config
	Formatted   bool
}

// RunnerFunc builds the runner used for the format command in dir.
type RunnerFunc func(dir string, w io.Writer) exec.Runner

// Scaffolder runs generations against a file system.
type Scaffolder struct {
	fs        afero.Fs
	log       logger.Logger
	newRunner RunnerFunc
}

// New returns a Scaffolder. A nil fsys means the OS file system and a nil log
// discards diagnostics.
func New(fsys afero.Fs, log logger.Logger) *Scaffolder {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Scaffolder{fs: fsys, log: log, newRunner: defaultRunner}
}

// WithRunner replaces how format commands are run.
func (s *Scaffolder) WithRunner(fn RunnerFunc) *Scaffolder {
	s.newRunner = fn
	return s
}

func defaultRunner(dir string, w io.Writer) exec.Runner {
	return exec.NewExecutor(exec.Options{Dir: dir, Stdout: w, Stderr: w})
}

// Run generates the transaction described by opts. The project root is
// checked before anything else is read, and no file is written unless both
// patchers succeed.
func (s *Scaffolder) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Name == "" {
		return nil, ErrEmptyName
	}

	proj, err := project.Open(s.fs, opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	log := s.log.With("project", proj.Root, "transaction", opts.Name)
	log.Debug("opened project", "cargo", proj.IsCargoProject(), "has_config", proj.HasConfig())

	cfg, err := config.Load(proj.Fs(), proj.Root, opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		log.Debug("loaded config", "file", cfg.File)
	}
	if opts.DefaultType != "" {
		cfg.DefaultType = opts.DefaultType
	}
	if opts.Strategy != "" {
		cfg.ConflictStrategy = opts.Strategy
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	set, err := s.loadTemplates(proj, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded templates", "source", set.Source)

	list := fields.ParseWithDefault(opts.FieldTokens, cfg.DefaultType)
	if len(opts.FieldTokens)%2 == 1 {
		log.Debug("odd field list, last field uses default type",
			"field", list[len(list)-1].Name, "type", cfg.DefaultType)
	}

	report := &Report{
		Name:      opts.Name,
		Fields:    list,
		Templates: set.Source,
		Config:    cfg,
	}
	if err := s.patch(ctx, log, set, report); err != nil {
		return nil, err
	}

	if !proj.IsCargoProject() {
		output.Warn(fmt.Sprintf("No %s found in %s; writing files anyway", project.CargoManifest, proj.Root))
	}

	strategy, showDiff := cfg.ConflictStrategy, opts.ShowDiff
	if opts.DryRun && (strategy == config.StrategyDiff || strategy == config.StrategyInteractive) {
		// a dry run writes nothing, so there is nothing to ask about
		showDiff = showDiff || strategy == config.StrategyDiff
		strategy = config.StrategyOverwrite
	}

	resolver, err := generator.NewResolver(strategy, s.fs, opts.Writer)
	if err != nil {
		return nil, err
	}

	txPath, statePath := proj.Path(cfg.TransactionPath), proj.Path(cfg.StatePath)
	ops := []generator.Operation{
		&generator.WriteFileOp{Fs: s.fs, Path: txPath, Content: []byte(report.Transaction.Text), Mode: 0o644, Resolver: resolver},
		&generator.WriteFileOp{Fs: s.fs, Path: statePath, Content: []byte(report.State.Text), Mode: 0o644, Resolver: resolver},
	}
	report.Files = []string{txPath, statePath}

	if err := generator.Execute(ctx, s.fs, ops, generator.ExecuteOptions{
		DryRun:   opts.DryRun,
		ShowDiff: showDiff,
		Writer:   opts.Writer,
	}); err != nil {
		return nil, err
	}

	if opts.Format && !opts.DryRun {
		report.Formatted = s.format(ctx, log, proj, cfg, opts.Writer)
	}

	log.Info("generated transaction", "fields", len(list), "dry_run", opts.DryRun)
	return report, nil
}

// format runs the format command. The files are already written, so a
// failure is reported as a warning.
func (s *Scaffolder) format(ctx context.Context, log logger.Logger, proj *project.Project, cfg *config.Config, w io.Writer) bool {
	output.Verbose(fmt.Sprintf("Running %s in %s", cfg.FormatCommand, proj.Root))

	if err := exec.RunLine(ctx, s.newRunner(proj.Root, w), cfg.FormatCommand); err != nil {
		log.Warn("format command failed", "command", cfg.FormatCommand, "err", err)
		output.Warn(fmt.Sprintf("Formatting with %q failed: %v", cfg.FormatCommand, err))
		return false
	}
	return true
}

func (s *Scaffolder) loadTemplates(proj *project.Project, cfg *config.Config) (*templates.Set, error) {
	if cfg.TemplatesDir == "" {
		return templates.Embedded()
	}
	return templates.Load(proj.Fs(), proj.Path(cfg.TemplatesDir))
}

// patch runs both patchers concurrently. Each goroutine writes only its own
// field of report.
func (s *Scaffolder) patch(ctx context.Context, log logger.Logger, set *templates.Set, report *Report) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := patch.PatchTransaction(set.Transaction, set.Anchors, report.Name, report.Fields)
		logSteps(log, templates.Transaction, res)
		report.Transaction = res
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := patch.PatchState(set.State, set.Anchors, report.Name, report.Fields)
		logSteps(log, templates.State, res)
		report.State = res
		return err
	})

	return g.Wait()
}

func logSteps(log logger.Logger, template string, res patch.Result) {
	for _, step := range res.Steps {
		log.Debug("patch step",
			"template", template,
			"anchor", step.Anchor,
			"status", step.Status,
			"offset", step.Span.Start,
		)
	}
}
