package tui

import "testing"

func TestSearchBuffer_AppendPrintableOnly(t *testing.T) {
	var s SearchBuffer

	for _, r := range "order-events_1" {
		s.Append(r)
	}
	if got := s.String(); got != "order-events_1" {
		t.Errorf("Expected 'order-events_1', got %q", got)
	}

	// Control characters and non-ASCII runes are dropped.
	s.Append('\n')
	s.Append('\t')
	s.Append('é')
	if got := s.String(); got != "order-events_1" {
		t.Errorf("Expected buffer unchanged, got %q", got)
	}
}

func TestSearchBuffer_Pop(t *testing.T) {
	var s SearchBuffer
	s.Append('a')
	s.Append('b')
	s.Pop()

	if got := s.String(); got != "a" {
		t.Errorf("Expected 'a', got %q", got)
	}

	s.Pop()
	s.Pop() // empty buffer, no-op
	if got := s.String(); got != "" {
		t.Errorf("Expected empty buffer, got %q", got)
	}
}

func TestSearchBuffer_Take(t *testing.T) {
	var s SearchBuffer
	s.Append('x')
	s.Append('y')

	if got := s.Take(); got != "xy" {
		t.Errorf("Expected 'xy', got %q", got)
	}
	if got := s.String(); got != "" {
		t.Errorf("Expected emptied buffer, got %q", got)
	}
	if s.Len() != 0 {
		t.Errorf("Expected length 0, got %d", s.Len())
	}
}

func TestSearchBuffer_Matches(t *testing.T) {
	known := []string{"orders", "payments", "order-archive", "shipments"}

	var s SearchBuffer
	if got := s.Matches(known, 5); got != nil {
		t.Errorf("Expected no matches on empty buffer, got %v", got)
	}

	for _, r := range "ord" {
		s.Append(r)
	}

	matches := s.Matches(known, 5)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %v", matches)
	}
	if matches[0] != "orders" && matches[0] != "order-archive" {
		t.Errorf("Unexpected best match %q", matches[0])
	}

	if got := s.Matches(known, 1); len(got) != 1 {
		t.Errorf("Expected the match cap honored, got %v", got)
	}
}
