package generator

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolver(t *testing.T) {
	tests := []struct {
		name    string
		want    any
		wantErr bool
	}{
		{name: "", want: OverwriteStrategy{}},
		{name: "overwrite", want: OverwriteStrategy{}},
		{name: "Skip", want: SkipStrategy{}},
		{name: "diff", want: &DiffStrategy{}},
		{name: "interactive", want: &InteractiveStrategy{}},
		{name: "merge", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(tt.name, afero.NewMemMapFs(), &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, r.strategy)
		})
	}
}

func TestAutomaticStrategies(t *testing.T) {
	res, err := OverwriteStrategy{}.Resolve("f", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Overwrite, res)

	res, err = SkipStrategy{}.Resolve("f", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Skip, res)
}

func TestDiffStrategy_PrintsThenPrompts(t *testing.T) {
	var buf bytes.Buffer
	s := &DiffStrategy{Out: &buf, Prompt: SkipStrategy{}}

	res, err := s.Resolve("src/tx.rs", []byte("a\n"), []byte("b\n"))
	require.NoError(t, err)

	assert.Equal(t, Skip, res)
	assert.Contains(t, buf.String(), "--- a/src/tx.rs")
	assert.Contains(t, buf.String(), "-a\n+b\n")
}

func TestMapChoiceToResolution(t *testing.T) {
	assert.Equal(t, ShowDiff, mapChoiceToResolution(0))
	assert.Equal(t, Skip, mapChoiceToResolution(1))
	assert.Equal(t, Overwrite, mapChoiceToResolution(2))
	assert.Equal(t, Cancel, mapChoiceToResolution(3))
	assert.Equal(t, Cancel, mapChoiceToResolution(99))
}

func TestConflictMenuModel(t *testing.T) {
	var m tea.Model = newConflictMenuModel("src/state.rs", nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, m.(conflictMenuModel).cursor, "cursor stops at the last choice")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	menu := m.(conflictMenuModel)
	require.NotNil(t, menu.selected)
	assert.Equal(t, Overwrite, *menu.selected)
	assert.NotNil(t, cmd)
	assert.Contains(t, menu.View(), "src/state.rs")
}

func TestConflictMenuModel_Quit(t *testing.T) {
	var m tea.Model = newConflictMenuModel("f", nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.Nil(t, m.(conflictMenuModel).selected)
	assert.NotNil(t, cmd)
}

func TestDiffViewerModel(t *testing.T) {
	var m tea.Model = newDiffViewerModel("f", "+added\n")
	assert.Equal(t, "Initializing...", m.View())

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Contains(t, m.View(), "+added")
	assert.Contains(t, m.View(), "Diff: f")
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", formatRelativeTime(now))
	assert.Equal(t, "1 minute ago", formatRelativeTime(now.Add(-90*time.Second)))
	assert.Equal(t, "3 hours ago", formatRelativeTime(now.Add(-3*time.Hour-time.Minute)))
	assert.Equal(t, "2 weeks ago", formatRelativeTime(now.Add(-15*24*time.Hour)))
	assert.Equal(t, "1 year ago", formatRelativeTime(now.Add(-400*24*time.Hour)))
}
