package patch

import (
	"errors"
	"fmt"

	"github.com/simonhull/firebird-suite/wren/internal/anchor"
	"github.com/simonhull/firebird-suite/wren/internal/fields"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

// Anchor names consumed by the patchers.
const (
	AnchorEnumBody         = "enum-body"
	AnchorVerifyDispatch   = "verify-dispatch"
	AnchorValidateDispatch = "validate-dispatch"
	AnchorProcessDispatch  = "process-dispatch"
)

// ErrAlreadyApplied is returned when an anchor is gone because the template
// already carries the transaction being added.
var ErrAlreadyApplied = errors.New("transaction already present")

// Status is the outcome of a single patch step.
type Status int

const (
	StatusApplied Status = iota
	StatusMissing
	StatusAlreadyApplied
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusMissing:
		return "missing"
	case StatusAlreadyApplied:
		return "already-applied"
	default:
		return "unknown"
	}
}

// Step records what happened to one anchor.
type Step struct {
	Anchor string
	Status Status
	Span   anchor.Span
}

// Result is a patched text and the outcome of every step that produced it.
// Steps that did not apply leave their part of the text untouched.
type Result struct {
	Text  string
	Steps []Step
}

// Applied reports whether every step applied.
func (r Result) Applied() bool {
	for _, s := range r.Steps {
		if s.Status != StatusApplied {
			return false
		}
	}
	return true
}

// edit is one planned anchor replacement.
type edit struct {
	anchor      string
	replacement string
	// present reports whether the input already contains what this edit adds.
	// It never sees the output of earlier edits, which may have added the same arm.
	present func(text string) bool
}

// apply runs edits in order, each against the output of the previous one.
// Anchors with identical text therefore hit successive occurrences.
func apply(template, text string, manifest *anchor.Manifest, edits []edit) (Result, error) {
	if manifest == nil {
		return Result{Text: text}, fmt.Errorf("patching %s template: no anchor manifest", template)
	}

	res := Result{Text: text, Steps: make([]Step, 0, len(edits))}
	var errs []error

	for _, e := range edits {
		a, err := manifest.Lookup(template, e.anchor)
		if err != nil {
			return Result{Text: text}, fmt.Errorf("patching %s template: %w", template, err)
		}

		out, span, err := a.Replace(res.Text, e.replacement)
		switch {
		case err == nil:
			res.Text = out
			res.Steps = append(res.Steps, Step{Anchor: e.anchor, Status: StatusApplied, Span: span})
		case errors.Is(err, anchor.ErrNotFound) && e.present != nil && e.present(text):
			res.Steps = append(res.Steps, Step{Anchor: e.anchor, Status: StatusAlreadyApplied})
			errs = append(errs, fmt.Errorf("%w: %w", ErrAlreadyApplied, err))
		case errors.Is(err, anchor.ErrNotFound):
			res.Steps = append(res.Steps, Step{Anchor: e.anchor, Status: StatusMissing})
			errs = append(errs, err)
		default:
			return Result{Text: text}, fmt.Errorf("patching %s template: %w", template, err)
		}
	}

	if len(errs) > 0 {
		return res, fmt.Errorf("patching %s template: %w", template, errors.Join(errs...))
	}
	return res, nil
}

// PatchTransaction adds the variant name with the given fields to the
// transaction-definition template, plus a branch for it in verify().
func PatchTransaction(tmpl string, manifest *anchor.Manifest, name string, list fields.List) (Result, error) {
	edits := []edit{
		{
			anchor:      AnchorEnumBody,
			replacement: renderEnum(name, list),
			present:     hasVariant(name),
		},
		{
			anchor:      AnchorVerifyDispatch,
			replacement: renderVerify(name, list),
			present:     containsArm("Self::" + name),
		},
	}
	return apply(templates.Transaction, tmpl, manifest, edits)
}

// PatchState adds branches for the variant name to both dispatches of the
// state template: validation first, then processing.
func PatchState(tmpl string, manifest *anchor.Manifest, name string, list fields.List) (Result, error) {
	edits := []edit{
		{
			anchor:      AnchorValidateDispatch,
			replacement: renderDispatch(name, list),
			present:     containsArm("Transaction::" + name),
		},
		{
			anchor:      AnchorProcessDispatch,
			replacement: renderDispatch(name, list),
			present:     containsArm("Transaction::" + name),
		},
	}
	return apply(templates.State, tmpl, manifest, edits)
}
