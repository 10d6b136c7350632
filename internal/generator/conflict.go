package generator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
)

// ErrCancelled is returned when the user cancels at a conflict prompt.
var ErrCancelled = errors.New("generation cancelled")

// Resolution is the decision for a destination file that already exists.
type Resolution int

const (
	Skip Resolution = iota
	Overwrite
	ShowDiff
	Cancel
)

// Strategy decides what to do with an existing file.
type Strategy interface {
	Resolve(path string, existing, newer []byte) (Resolution, error)
}

// Strategy names accepted by NewResolver.
const (
	StrategyOverwrite   = "overwrite"
	StrategySkip        = "skip"
	StrategyDiff        = "diff"
	StrategyInteractive = "interactive"
)

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// Resolver applies a Strategy to file conflicts.
type Resolver struct {
	strategy Strategy
}

// NewResolver builds a resolver from a strategy name. Prompts and diffs go to
// w; the interactive strategies read keys from stdin.
func NewResolver(name string, fsys afero.Fs, w io.Writer) (*Resolver, error) {
	if w == nil {
		w = os.Stdout
	}

	switch strings.ToLower(name) {
	case "", StrategyOverwrite:
		return &Resolver{strategy: OverwriteStrategy{}}, nil
	case StrategySkip:
		return &Resolver{strategy: SkipStrategy{}}, nil
	case StrategyDiff:
		return &Resolver{strategy: &DiffStrategy{Out: w, Prompt: &InteractiveStrategy{Fs: fsys, Out: w}}}, nil
	case StrategyInteractive:
		return &Resolver{strategy: &InteractiveStrategy{Fs: fsys, Out: w}}, nil
	default:
		return nil, fmt.Errorf("unknown conflict strategy %q", name)
	}
}

// NewResolverWith wraps an arbitrary strategy.
func NewResolverWith(s Strategy) *Resolver {
	return &Resolver{strategy: s}
}

// Resolve returns the decision for path.
func (r *Resolver) Resolve(path string, existing, newer []byte) (Resolution, error) {
	return r.strategy.Resolve(path, existing, newer)
}

// OverwriteStrategy always overwrites.
type OverwriteStrategy struct{}

func (OverwriteStrategy) Resolve(string, []byte, []byte) (Resolution, error) {
	return Overwrite, nil
}

// SkipStrategy always keeps the existing file.
type SkipStrategy struct{}

func (SkipStrategy) Resolve(string, []byte, []byte) (Resolution, error) {
	return Skip, nil
}

// DiffStrategy prints the diff and then asks Prompt for the decision.
type DiffStrategy struct {
	Out    io.Writer
	Prompt Strategy
}

func (s *DiffStrategy) Resolve(path string, existing, newer []byte) (Resolution, error) {
	fmt.Fprint(s.Out, Diff("a/"+path, "b/"+path, existing, newer, DiffOptions{Color: ColorEnabled(s.Out)}))
	return s.Prompt.Resolve(path, existing, newer)
}

// InteractiveStrategy shows a menu. Choosing "Show diff" opens a scrollable
// pager and returns to the menu afterwards.
type InteractiveStrategy struct {
	Fs  afero.Fs  // used to show the existing file's size and age
	In  io.Reader // defaults to stdin
	Out io.Writer // defaults to stdout
}

func (s *InteractiveStrategy) Resolve(path string, existing, newer []byte) (Resolution, error) {
	var info os.FileInfo
	if s.Fs != nil {
		info, _ = s.Fs.Stat(path)
	}

	for {
		final, err := s.run(newConflictMenuModel(path, info))
		if err != nil {
			return Cancel, fmt.Errorf("failed to show menu: %w", err)
		}

		menu := final.(conflictMenuModel)
		if menu.selected == nil {
			return Cancel, nil
		}
		if *menu.selected != ShowDiff {
			return *menu.selected, nil
		}

		diff := Diff("a/"+path, "b/"+path, existing, newer, DiffOptions{Color: true})
		if _, err := s.run(newDiffViewerModel(path, diff), tea.WithAltScreen()); err != nil {
			return Cancel, fmt.Errorf("failed to show diff: %w", err)
		}
	}
}

func (s *InteractiveStrategy) run(m tea.Model, extra ...tea.ProgramOption) (tea.Model, error) {
	opts := extra
	if s.In != nil {
		opts = append(opts, tea.WithInput(s.In))
	}
	if s.Out != nil {
		opts = append(opts, tea.WithOutput(s.Out))
	}
	return tea.NewProgram(m, opts...).Run()
}

type conflictMenuModel struct {
	path     string
	info     os.FileInfo
	choices  []string
	cursor   int
	selected *Resolution
}

func newConflictMenuModel(path string, info os.FileInfo) conflictMenuModel {
	return conflictMenuModel{
		path: path,
		info: info,
		choices: []string{
			"Show diff and decide",
			"Skip (keep existing file)",
			"Overwrite (write patched file)",
			"Cancel operation",
		},
	}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		res := mapChoiceToResolution(m.cursor)
		m.selected = &res
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠️  File conflict detected: ") + titleStyle.Render(m.path) + "\n")
	if m.info != nil {
		b.WriteString(mutedStyle.Render("    Last modified: ") + formatRelativeTime(m.info.ModTime()) + "\n")
		b.WriteString(mutedStyle.Render("    Size: ") + fmt.Sprintf("%d bytes", m.info.Size()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}

func mapChoiceToResolution(cursor int) Resolution {
	switch cursor {
	case 0:
		return ShowDiff
	case 1:
		return Skip
	case 2:
		return Overwrite
	default:
		return Cancel
	}
}

type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		const chrome = 4 // header and footer lines
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(1, msg.Height-chrome))
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(1, msg.Height-chrome)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	header := titleStyle.Render("Diff: "+m.path) + "\n\n"
	footer := "\n" + mutedStyle.Render(fmt.Sprintf("[↑/↓] Scroll    [q] Return to menu    %3.f%%", m.viewport.ScrollPercent()*100))
	return header + m.viewport.View() + footer
}

func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24/7), "week")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/24/30), "month")
	default:
		return plural(int(d.Hours()/24/365), "year")
	}
}
