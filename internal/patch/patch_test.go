package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/wren/internal/anchor"
	"github.com/simonhull/firebird-suite/wren/internal/fields"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

func loadTemplates(t *testing.T) *templates.Set {
	t.Helper()

	set, err := templates.Embedded()
	require.NoError(t, err)
	return set
}

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()

	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestPatchTransaction_Golden(t *testing.T) {
	set := loadTemplates(t)

	tests := []struct {
		golden string
		name   string
		tokens []string
	}{
		{golden: "transaction_transfer", name: "Transfer", tokens: []string{"amount", "u64", "to", "String"}},
		{golden: "transaction_ping", name: "Ping"},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			res, err := PatchTransaction(set.Transaction, set.Anchors, tt.name, fields.Parse(tt.tokens))
			require.NoError(t, err)
			assert.True(t, res.Applied())

			newGolden(t).Assert(t, tt.golden, []byte(res.Text))
		})
	}
}

func TestPatchState_Golden(t *testing.T) {
	set := loadTemplates(t)

	tests := []struct {
		golden string
		name   string
		tokens []string
	}{
		{golden: "state_transfer", name: "Transfer", tokens: []string{"amount", "u64", "to", "String"}},
		{golden: "state_ping", name: "Ping"},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			res, err := PatchState(set.State, set.Anchors, tt.name, fields.Parse(tt.tokens))
			require.NoError(t, err)
			assert.True(t, res.Applied())

			newGolden(t).Assert(t, tt.golden, []byte(res.Text))
		})
	}
}

func TestPatchTransaction_Transfer(t *testing.T) {
	set := loadTemplates(t)
	list := fields.Parse([]string{"amount", "u64", "to", "String"})

	res, err := PatchTransaction(set.Transaction, set.Anchors, "Transfer", list)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "pub enum Transaction {\n    Transfer {\n        amount: u64,\n        to: String\n    },\n    Noop\n}")
	assert.Contains(t, res.Text, "            Self::Transfer { amount, to } => {\n                // TODO: Add verification logic here\n                Ok(())\n            },\n            Self::Noop => Ok(()),")
	assert.NotContains(t, res.Text, "Transaction::Noop => Ok(())")

	require.Len(t, res.Steps, 2)
	assert.Equal(t, AnchorEnumBody, res.Steps[0].Anchor)
	assert.Equal(t, AnchorVerifyDispatch, res.Steps[1].Anchor)
}

func TestPatchTransaction_UnitVariant(t *testing.T) {
	set := loadTemplates(t)

	res, err := PatchTransaction(set.Transaction, set.Anchors, "Ping", fields.List{})
	require.NoError(t, err)

	assert.Contains(t, res.Text, "pub enum Transaction {\n    Ping,\n    Noop\n}")
	// A unit variant still gets the verify block with its TODO body. Only the
	// state dispatches collapse to a one-line Ok(()) arm.
	assert.Contains(t, res.Text, "            Self::Ping => {\n                // TODO: Add verification logic here\n                Ok(())\n            },\n")
	assert.NotContains(t, res.Text, "Self::Ping => Ok(())")
	assert.NotContains(t, res.Text, "Ping {")
}

func TestPatchState_UnitVariant(t *testing.T) {
	set := loadTemplates(t)

	res, err := PatchState(set.State, set.Anchors, "Ping", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(res.Text, "            Transaction::Ping => Ok(()),\n"))
	assert.NotContains(t, res.Text, "Ping {")
}

// Field order must survive into the enum body and every match arm.
func TestPatch_FieldOrderPreserved(t *testing.T) {
	set := loadTemplates(t)

	orders := [][]string{
		{"a", "u8", "b", "u16", "c", "u32"},
		{"c", "u32", "a", "u8", "b", "u16"},
		{"b", "u16", "c", "u32", "a", "u8"},
	}

	for _, tokens := range orders {
		list := fields.Parse(tokens)
		pattern := list.Pattern()

		txRes, err := PatchTransaction(set.Transaction, set.Anchors, "Multi", list)
		require.NoError(t, err)

		var decls []string
		for _, f := range list {
			decls = append(decls, "        "+f.Name+": "+f.Type)
		}
		assert.Contains(t, txRes.Text, "    Multi {\n"+strings.Join(decls, ",\n")+"\n    },")
		assert.Contains(t, txRes.Text, "Self::Multi { "+pattern+" } => {")

		stateRes, err := PatchState(set.State, set.Anchors, "Multi", list)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(stateRes.Text, "Transaction::Multi { "+pattern+" } => Ok(()),"))
	}
}

// Both dispatches get their own branch, validation first.
func TestPatchState_TwoStepReplacement(t *testing.T) {
	set := loadTemplates(t)
	list := fields.Parse([]string{"amount", "u64"})

	res, err := PatchState(set.State, set.Anchors, "Mint", list)
	require.NoError(t, err)

	require.Len(t, res.Steps, 2)
	assert.Equal(t, AnchorValidateDispatch, res.Steps[0].Anchor)
	assert.Equal(t, AnchorProcessDispatch, res.Steps[1].Anchor)
	assert.Less(t, res.Steps[0].Span.Start, res.Steps[1].Span.Start)

	validate := strings.Index(res.Text, "fn validate_tx(")
	process := strings.Index(res.Text, "fn process_tx(")
	require.Positive(t, validate)
	require.Greater(t, process, validate)

	arm := "Transaction::Mint { amount } => Ok(()),"
	first := strings.Index(res.Text, arm)
	last := strings.LastIndex(res.Text, arm)
	assert.Greater(t, first, validate)
	assert.Less(t, first, process)
	assert.Greater(t, last, process)
	assert.NotContains(t, res.Text, "        match tx {\n            Transaction::Noop => Ok(()),\n        }")
}

func TestPatch_AnchorMissPassesThrough(t *testing.T) {
	set := loadTemplates(t)
	text := "fn main() {}\n"
	list := fields.Parse([]string{"x", "u8"})

	txRes, err := PatchTransaction(text, set.Anchors, "X", list)
	require.Error(t, err)
	assert.ErrorIs(t, err, anchor.ErrNotFound)
	assert.Equal(t, text, txRes.Text)
	assert.False(t, txRes.Applied())
	for _, s := range txRes.Steps {
		assert.Equal(t, StatusMissing, s.Status)
	}

	stateRes, err := PatchState(text, set.Anchors, "X", list)
	require.Error(t, err)
	assert.ErrorIs(t, err, anchor.ErrNotFound)
	assert.Equal(t, text, stateRes.Text)
	assert.Contains(t, err.Error(), AnchorValidateDispatch)
	assert.Contains(t, err.Error(), AnchorProcessDispatch)
}

func TestPatch_PartialMissKeepsAppliedStep(t *testing.T) {
	set := loadTemplates(t)
	enum, err := set.Anchors.Lookup(templates.Transaction, AnchorEnumBody)
	require.NoError(t, err)

	text := "// header\n" + enum.Text + "\n// no verify here\n"

	res, err := PatchTransaction(text, set.Anchors, "Burn", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, anchor.ErrNotFound)

	require.Len(t, res.Steps, 2)
	assert.Equal(t, StatusApplied, res.Steps[0].Status)
	assert.Equal(t, StatusMissing, res.Steps[1].Status)
	assert.Contains(t, res.Text, "    Burn,\n    Noop\n}")
	assert.True(t, strings.HasSuffix(res.Text, "\n// no verify here\n"))
}

func TestPatch_OnlyOneDispatchAnchor(t *testing.T) {
	set := loadTemplates(t)
	dispatch, err := set.Anchors.Lookup(templates.State, AnchorValidateDispatch)
	require.NoError(t, err)

	res, err := PatchState("fn v() {\n"+dispatch.Text+"\n}\n", set.Anchors, "Ping", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, anchor.ErrNotFound)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, StatusApplied, res.Steps[0].Status)
	// the arm added by the validate step does not make the process step look applied
	assert.Equal(t, StatusMissing, res.Steps[1].Status)
	assert.False(t, errors.Is(err, ErrAlreadyApplied))
}

func TestPatchState_MissingProcessDispatch(t *testing.T) {
	set := loadTemplates(t)
	process := strings.LastIndex(set.State, "fn process_tx")
	require.Positive(t, process)

	// drop the process_tx match, keep everything before it
	text := set.State[:process] + "fn process_tx(&mut self, tx: &Transaction) -> Result<()> {\n        Ok(())\n    }\n}\n"

	res, err := PatchState(text, set.Anchors, "Ping", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, anchor.ErrNotFound)
	assert.False(t, errors.Is(err, ErrAlreadyApplied))

	require.Len(t, res.Steps, 2)
	assert.Equal(t, StatusApplied, res.Steps[0].Status)
	assert.Equal(t, StatusMissing, res.Steps[1].Status)
}

func TestPatchState_DriftedValidateDispatch(t *testing.T) {
	set := loadTemplates(t)
	dispatch, err := set.Anchors.Lookup(templates.State, AnchorValidateDispatch)
	require.NoError(t, err)

	tabbed := "\tmatch tx {\n\t\tTransaction::Noop => Ok(()),\n\t}"
	first := strings.Index(set.State, dispatch.Text)
	text := set.State[:first] + tabbed + set.State[first+len(dispatch.Text):]

	res, err := PatchState(text, set.Anchors, "Ping", nil)
	require.NoError(t, err)

	require.Len(t, res.Steps, 2)
	assert.False(t, res.Steps[0].Span.Exact, "validate step patches the drifted validate_tx match")
	assert.True(t, res.Steps[1].Span.Exact, "process step patches the untouched process_tx match")
	assert.Less(t, res.Steps[0].Span.Start, res.Steps[1].Span.Start)

	validate := res.Text[strings.Index(res.Text, "fn validate_tx"):strings.Index(res.Text, "fn process_tx")]
	assert.Contains(t, validate, "Transaction::Ping => Ok(()),")
	assert.Contains(t, res.Text[strings.Index(res.Text, "fn process_tx"):], "Transaction::Ping => Ok(()),")
}

func TestPatch_AlreadyApplied(t *testing.T) {
	set := loadTemplates(t)
	list := fields.Parse([]string{"amount", "u64"})

	first, err := PatchTransaction(set.Transaction, set.Anchors, "Transfer", list)
	require.NoError(t, err)

	second, err := PatchTransaction(first.Text, set.Anchors, "Transfer", list)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyApplied))
	assert.Equal(t, first.Text, second.Text)
	for _, s := range second.Steps {
		assert.Equal(t, StatusAlreadyApplied, s.Status)
	}

	// A different name on an already-patched template is a plain miss.
	_, err = PatchTransaction(first.Text, set.Anchors, "Stake", list)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAlreadyApplied))
	assert.ErrorIs(t, err, anchor.ErrNotFound)
}

func TestPatch_WhitespaceDrift(t *testing.T) {
	set := loadTemplates(t)
	crlf := strings.ReplaceAll(set.State, "\n", "\r\n")

	res, err := PatchState(crlf, set.Anchors, "Ping", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(res.Text, "Transaction::Ping => Ok(()),"))
	for _, s := range res.Steps {
		assert.False(t, s.Span.Exact)
	}
}

func TestPatch_UnknownAnchorInManifest(t *testing.T) {
	manifest := &anchor.Manifest{
		Version: anchor.ManifestVersion,
		Templates: map[string][]anchor.Anchor{
			templates.State: {{Name: "something-else", Text: "x"}},
		},
	}

	res, err := PatchState("x", manifest, "Ping", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, anchor.ErrUnknownAnchor)
	assert.Equal(t, "x", res.Text)

	_, err = PatchState("x", nil, "Ping", nil)
	assert.Error(t, err)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "applied", StatusApplied.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "already-applied", StatusAlreadyApplied.String())
	assert.Equal(t, "unknown", Status(42).String())
}
