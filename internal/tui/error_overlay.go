package tui

import "fmt"

// ErrorOverlay is the single captured failure. While one exists it is
// checked before any stage dispatch and swallows every key except dismiss,
// so the user cannot act on a stale or absent selection until the failure
// is acknowledged. Only dismissal clears it.
type ErrorOverlay struct {
	// Stream is the stream name active at the time of failure; empty for
	// catalog loads.
	Stream string

	// Err is the captured failure.
	Err error
}

// Message renders the overlay's user-facing text.
func (e *ErrorOverlay) Message() string {
	return fmt.Sprintf("Stream '%s': %v. Press 'q' to close.", e.Stream, e.Err)
}
