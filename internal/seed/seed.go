// Package seed loads event fixtures from JSONC files and appends them to a
// store. Fixtures are meant for demos and tests; comments and trailing
// commas are allowed.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/streamlens/streamlens/internal/store"
)

// Fixture is the root of a seed file.
//
//	{
//	  // streams are appended in order, events in listed order
//	  "streams": [
//	    {"name": "orders", "events": [
//	      {"type": "OrderPlaced", "data": {"id": 1}},
//	      {"type": "Receipt", "text": "plain payload"},
//	    ]},
//	  ],
//	  // links append "$>" pointer events after all streams exist
//	  "links": [
//	    {"stream": "dashboard", "target": "orders", "revision": 0},
//	  ],
//	}
type Fixture struct {
	Streams []StreamFixture `json:"streams"`
	Links   []LinkFixture   `json:"links"`
}

// StreamFixture is one stream and its events.
type StreamFixture struct {
	Name   string         `json:"name"`
	Events []EventFixture `json:"events"`
}

// EventFixture is one event. Exactly one of Data (JSON payload) or Text
// (opaque payload) should be set.
type EventFixture struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Text string          `json:"text,omitempty"`
}

// LinkFixture appends a link event to Stream pointing at Revision of Target.
type LinkFixture struct {
	Stream   string `json:"stream"`
	Target   string `json:"target"`
	Revision uint64 `json:"revision"`
}

// Load parses a JSONC fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var fixture Fixture
	if err := json.Unmarshal(jsonc.ToJSON(data), &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	return &fixture, nil
}

// Apply appends the fixture's events to the store and returns the number of
// events written, links included.
func Apply(ctx context.Context, s *store.Store, fixture *Fixture) (int, error) {
	appended := 0

	for _, stream := range fixture.Streams {
		for _, ev := range stream.Events {
			data := []byte(ev.Text)
			isJSON := false
			if len(ev.Data) > 0 {
				data = ev.Data
				isJSON = true
			}

			if _, err := s.Append(ctx, stream.Name, ev.Type, data, isJSON); err != nil {
				return appended, fmt.Errorf("failed to seed stream %q: %w", stream.Name, err)
			}
			appended++
		}
	}

	for _, link := range fixture.Links {
		if _, err := s.AppendLink(ctx, link.Stream, link.Target, link.Revision); err != nil {
			return appended, fmt.Errorf("failed to seed link in %q: %w", link.Stream, err)
		}
		appended++
	}

	return appended, nil
}
