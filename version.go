// Package wren is the root of the wren transaction scaffolding tool.
package wren

// Version is the wren release, overridable with -ldflags "-X".
var Version = "0.1.0"
