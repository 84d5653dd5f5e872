/*
Package tui implements the interactive stream browser.

# Architecture

The package follows the Bubble Tea Model-Update-View pattern, but all
navigation semantics live in Browser, a plain state machine with no
framework dependency:

  - browser.go: stages, key dispatch, selection and refresh protocol
  - scroll.go: preview scroll offset with lazy render-time clamping
  - search.go: stream-name input buffer and fuzzy match hints
  - error_overlay.go: the single captured-failure slot
  - payload.go: payload pretty-printing, highlighting, line numbers
  - model.go: the bubbletea host (terminal size, refresh cadence, clipboard)
  - keys.go: bubbletea key translation and the per-stage legend
  - render.go: lipgloss rendering of every stage

# Stages

The browser moves between four stages: Main (the catalog's two summary
lists), Search (stream-name entry), Stream (one stream's event table), and
StreamPreview (a single event's payload). Each key press yields exactly one
of {no-op, request-refresh, request-exit}; the host performs the refresh or
exit.

# Data loading

Refresh re-invokes the catalog or event loader synchronously: the call does
not return until the load completes or fails, and no input is processed
while it runs. A load failure never terminates the component; it either
degrades to an empty result ("not found" on a catalog read) or lands in the
error overlay, which then swallows all input until dismissed with 'q'.

# Threading model

The whole package runs on Bubble Tea's single event loop goroutine. The
model is owned exclusively by this component; rendering is a pure read of
it and safe to invoke repeatedly.
*/
package tui
