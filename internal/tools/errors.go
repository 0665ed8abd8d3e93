package tools

import "errors"

var (
	// ErrMakeNotFound is returned when no make executable was detected.
	ErrMakeNotFound = errors.New("make not found")
	// errNoVersion is returned when a tool prints nothing that looks like a version.
	errNoVersion = errors.New("no version in tool output")
)
