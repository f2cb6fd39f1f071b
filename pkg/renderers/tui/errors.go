package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrAttemptsExceeded is returned when a field stays invalid after the
	// configured number of attempts.
	ErrAttemptsExceeded = errors.New("tui: too many invalid attempts")
	// ErrUnsettled is returned when answers keep invalidating each other.
	ErrUnsettled = errors.New("tui: form did not settle")
)
