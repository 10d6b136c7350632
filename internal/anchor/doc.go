// Package anchor locates named insertion points in template text.
//
// # Overview
//
// A template is patched by replacing known blocks of text ("anchors") with
// generated code. Each anchor has a name and the exact text it covers:
//
//	a := anchor.Anchor{Name: "enum-body", Text: "pub enum Transaction {\n    Noop,\n}"}
//	out, span, err := a.Replace(src, replacement)
//	if errors.Is(err, anchor.ErrNotFound) {
//	    // src was returned unchanged
//	}
//
// # Manifest
//
// The anchors of every template are described by a versioned YAML manifest:
//
//	version: 1
//	templates:
//	  transaction:
//	    - name: enum-body
//	      text: |-
//	        pub enum Transaction {
//	            Noop,
//	        }
//
// Order matters. Two anchors of one template may share the same text; patch
// steps consume them one at a time, so each step matches the first remaining
// occurrence.
//
// # Matching
//
// Locate tries the literal text first and falls back to a whitespace-tolerant
// match, so re-indented templates and CRLF line endings still patch. A miss is
// always reported as an error wrapping ErrNotFound.
package anchor
