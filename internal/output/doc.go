// Package output provides styled terminal output for wren.
//
// Functions use lipgloss for styling and write to a package-level writer
// (stdout unless replaced with SetWriter).
package output
