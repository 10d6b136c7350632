package generator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// maxDiffCells bounds the LCS table; larger inputs get a summary line instead.
const maxDiffCells = 4_000_000

var (
	diffHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	diffHunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	diffAddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	diffRemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// DiffOptions configures Diff.
type DiffOptions struct {
	// Context is the number of unchanged lines around each change. Default 3.
	Context int
	// Color styles the output with lipgloss.
	Color bool
}

// ColorEnabled reports whether w is a terminal that should receive styled diffs.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type lineOp int

const (
	lineSame lineOp = iota
	lineAdded
	lineRemoved
)

type diffLine struct {
	op   lineOp
	text string
}

// Diff renders a unified diff between old and newer. Identical inputs give "".
func Diff(oldPath, newPath string, old, newer []byte, opts DiffOptions) string {
	if opts.Context <= 0 {
		opts.Context = 3
	}

	a, b := splitLines(string(old)), splitLines(string(newer))
	if len(a)*len(b) > maxDiffCells {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	script := editScript(a, b)

	changed := false
	for _, l := range script {
		if l.op != lineSame {
			changed = true
			break
		}
	}
	if !changed {
		return ""
	}

	style := func(s lipgloss.Style, text string) string {
		if opts.Color {
			return s.Render(text)
		}
		return text
	}

	var out strings.Builder
	out.WriteString(style(diffHeaderStyle, "--- "+oldPath) + "\n")
	out.WriteString(style(diffHeaderStyle, "+++ "+newPath) + "\n")

	for _, h := range hunks(script, opts.Context) {
		out.WriteString(style(diffHunkStyle, h.header()) + "\n")
		for _, l := range script[h.from:h.to] {
			switch l.op {
			case lineAdded:
				out.WriteString(style(diffAddedStyle, "+"+l.text) + "\n")
			case lineRemoved:
				out.WriteString(style(diffRemovedStyle, "-"+l.text) + "\n")
			default:
				out.WriteString(" " + l.text + "\n")
			}
		}
	}

	return out.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// editScript computes a minimal line edit script from the LCS table.
func editScript(a, b []string) []diffLine {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	script := make([]diffLine, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			script = append(script, diffLine{lineSame, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			script = append(script, diffLine{lineRemoved, a[i]})
			i++
		default:
			script = append(script, diffLine{lineAdded, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		script = append(script, diffLine{lineRemoved, a[i]})
	}
	for ; j < m; j++ {
		script = append(script, diffLine{lineAdded, b[j]})
	}
	return script
}

type hunk struct {
	from, to           int // indices into the edit script
	oldStart, oldCount int
	newStart, newCount int
}

func (h hunk) header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
}

// hunks groups changes whose surrounding context overlaps.
func hunks(script []diffLine, context int) []hunk {
	var out []hunk
	var cur *hunk

	for i, l := range script {
		if l.op == lineSame {
			continue
		}
		from := max(0, i-context)
		to := min(len(script), i+context+1)
		if cur != nil && from <= cur.to {
			cur.to = to
			continue
		}
		if cur != nil {
			out = append(out, *cur)
		}
		cur = &hunk{from: from, to: to}
	}
	if cur != nil {
		out = append(out, *cur)
	}

	for k := range out {
		h := &out[k]
		oldLine, newLine := 1, 1
		for _, l := range script[:h.from] {
			if l.op != lineAdded {
				oldLine++
			}
			if l.op != lineRemoved {
				newLine++
			}
		}
		for _, l := range script[h.from:h.to] {
			if l.op != lineAdded {
				h.oldCount++
			}
			if l.op != lineRemoved {
				h.newCount++
			}
		}
		h.oldStart, h.newStart = oldLine, newLine
		if h.oldCount == 0 {
			h.oldStart--
		}
		if h.newCount == 0 {
			h.newStart--
		}
	}

	return out
}
