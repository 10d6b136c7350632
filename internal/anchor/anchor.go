package anchor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrNotFound is returned when an anchor does not occur in a template.
	ErrNotFound = errors.New("anchor not found")

	// ErrUnknownAnchor is returned when a manifest has no anchor of the requested name.
	ErrUnknownAnchor = errors.New("unknown anchor")
)

// Anchor is a named insertion point: a block of template text that a patch
// step replaces wholesale.
type Anchor struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
	Doc  string `yaml:"doc,omitempty"`
}

// Span is the byte range an anchor occupies in a text.
// Exact is false when the span was found by the whitespace-tolerant matcher.
type Span struct {
	Start int
	End   int
	Exact bool
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Locate finds the first occurrence of the anchor in text.
func (a Anchor) Locate(text string) (Span, error) {
	return a.LocateFrom(text, 0)
}

// LocateFrom finds the first occurrence of the anchor at or after byte offset from.
//
// Every whitespace run of the anchor may match any non-empty whitespace run,
// which tolerates re-indentation and CRLF line endings in the template. The
// earliest occurrence wins; a literal match is preferred only when it is the
// same occurrence.
func (a Anchor) LocateFrom(text string, from int) (Span, error) {
	if a.Text == "" {
		return Span{}, fmt.Errorf("anchor %q has no text", a.Name)
	}
	if from < 0 || from > len(text) {
		return Span{}, fmt.Errorf("anchor %q: offset %d out of range", a.Name, from)
	}

	rest := text[from:]
	exact := strings.Index(rest, a.Text)
	loc := a.pattern().FindStringIndex(rest)

	switch {
	case loc != nil && (exact < 0 || loc[1] <= exact):
		return Span{Start: from + loc[0], End: from + loc[1]}, nil
	case exact >= 0:
		return Span{Start: from + exact, End: from + exact + len(a.Text), Exact: true}, nil
	default:
		return Span{}, fmt.Errorf("%w: %s", ErrNotFound, a.Name)
	}
}

// Replace substitutes replacement for the first occurrence of the anchor.
// On a miss the original text is returned unchanged together with an error
// wrapping ErrNotFound.
func (a Anchor) Replace(text, replacement string) (string, Span, error) {
	span, err := a.Locate(text)
	if err != nil {
		return text, Span{}, err
	}

	var b strings.Builder
	b.Grow(len(text) - span.Len() + len(replacement))
	b.WriteString(text[:span.Start])
	b.WriteString(replacement)
	b.WriteString(text[span.End:])
	return b.String(), span, nil
}

// pattern builds the whitespace-tolerant form of the anchor text. Inner
// whitespace runs match any whitespace; leading and trailing runs only match
// horizontal whitespace so a span never swallows a neighbouring line break.
func (a Anchor) pattern() *regexp.Regexp {
	var b strings.Builder
	for i, tok := range tokenize(a.Text) {
		switch {
		case !tok.space:
			b.WriteString(regexp.QuoteMeta(tok.text))
		case i == 0 || tok.last:
			b.WriteString(`[ \t]*`)
		default:
			b.WriteString(`\s+`)
		}
	}
	return regexp.MustCompile(b.String())
}

type token struct {
	text  string
	space bool
	last  bool
}

// tokenize splits s into alternating whitespace and non-whitespace runs.
func tokenize(s string) []token {
	var toks []token
	start, inSpace := 0, false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			toks = append(toks, token{text: s[start:i], space: inSpace})
			start, inSpace = i, space
		}
	}
	if start < len(s) {
		toks = append(toks, token{text: s[start:], space: inSpace})
	}
	if n := len(toks); n > 0 {
		toks[n-1].last = true
	}
	return toks
}

// Report describes whether an anchor was found in a text.
type Report struct {
	Anchor string
	Found  bool
	Span   Span
}

// Inspect locates each anchor in order. Anchors sharing the same text are
// matched against successive occurrences, mirroring how sequential patch
// steps consume them.
func Inspect(text string, anchors []Anchor) []Report {
	next := make(map[string]int)
	reports := make([]Report, 0, len(anchors))

	for _, a := range anchors {
		span, err := a.LocateFrom(text, next[a.Text])
		if err != nil {
			reports = append(reports, Report{Anchor: a.Name})
			continue
		}
		next[a.Text] = span.End
		reports = append(reports, Report{Anchor: a.Name, Found: true, Span: span})
	}

	return reports
}
