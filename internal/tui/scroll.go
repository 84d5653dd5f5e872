package tui

// ScrollMargin is the fixed number of lines kept in the clamp arithmetic
// for the preview pane's borders.
const ScrollMargin = 2

// ScrollState is the preview pane's scroll offset. Down is unbounded at
// input time; the offset is clamped lazily at render time because the
// terminal may have been resized since the key was processed.
type ScrollState struct {
	offset int
}

// Offset returns the current offset.
func (s *ScrollState) Offset() int { return s.offset }

// Up moves one line towards the top, never below zero.
func (s *ScrollState) Up() {
	if s.offset > 0 {
		s.offset--
	}
}

// Down moves one line towards the bottom, unconditionally. A transiently
// out-of-range offset is corrected by Clamp before it becomes visible.
func (s *ScrollState) Down() {
	s.offset++
}

// Reset returns to the top.
func (s *ScrollState) Reset() {
	s.offset = 0
}

// Clamp bounds the offset against the rendered content and returns it.
// When the visible area fits everything the offset is locked to zero;
// otherwise it is capped at the offset revealing exactly the final line.
func (s *ScrollState) Clamp(viewHeight, contentHeight int) int {
	if viewHeight >= contentHeight+ScrollMargin {
		s.offset = 0
	} else if maxOffset := contentHeight + ScrollMargin - viewHeight; s.offset > maxOffset {
		s.offset = maxOffset
	}
	return s.offset
}
