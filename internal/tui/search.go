package tui

import (
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// SearchBuffer accumulates a stream name from character input.
type SearchBuffer struct {
	text string
}

// String returns the buffer's current contents.
func (s *SearchBuffer) String() string { return s.text }

// Len returns the number of characters (not bytes) in the buffer.
func (s *SearchBuffer) Len() int { return utf8.RuneCountInString(s.text) }

// Append adds one printable ASCII character; anything else is ignored.
func (s *SearchBuffer) Append(r rune) {
	if r >= ' ' && r <= '~' {
		s.text += string(r)
	}
}

// Pop removes the last character, by character rather than raw byte.
func (s *SearchBuffer) Pop() {
	if s.text == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.text)
	s.text = s.text[:len(s.text)-size]
}

// Take moves the buffer's contents out, leaving it empty.
func (s *SearchBuffer) Take() string {
	text := s.text
	s.text = ""
	return text
}

// Matches fuzzy-matches the buffer against known stream names and returns
// up to max of them, best first. Used purely as a typing hint; it never
// affects what Enter submits.
func (s *SearchBuffer) Matches(known []string, max int) []string {
	if s.text == "" || max <= 0 {
		return nil
	}

	results := fuzzy.Find(s.text, known)
	if len(results) > max {
		results = results[:max]
	}

	names := make([]string, 0, len(results))
	for _, res := range results {
		names = append(names, res.Str)
	}
	return names
}
