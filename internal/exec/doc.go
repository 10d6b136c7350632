// Package exec runs external tools, such as the project formatter, after
// files have been generated.
package exec
