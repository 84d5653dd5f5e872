package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/streamlens/streamlens/internal/store"
	"github.com/streamlens/streamlens/internal/types"
)

const fixtureJSONC = `{
  // demo streams
  "streams": [
    {"name": "orders", "events": [
      {"type": "OrderPlaced", "data": {"id": 1}},
      {"type": "Receipt", "text": "printed copy"},
    ]},
    {"name": "payments", "events": [
      {"type": "PaymentReceived", "data": {"amount": 12.5}},
    ]},
  ],
  "links": [
    {"stream": "dashboard", "target": "orders", "revision": 0},
  ],
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestLoad_ParsesCommentsAndTrailingCommas(t *testing.T) {
	fixture, err := Load(writeFixture(t, fixtureJSONC))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(fixture.Streams) != 2 {
		t.Fatalf("Expected 2 streams, got %d", len(fixture.Streams))
	}
	if fixture.Streams[0].Name != "orders" || len(fixture.Streams[0].Events) != 2 {
		t.Errorf("Unexpected first stream: %+v", fixture.Streams[0])
	}
	if len(fixture.Links) != 1 || fixture.Links[0].Target != "orders" {
		t.Errorf("Unexpected links: %+v", fixture.Links)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jsonc")); err == nil {
		t.Error("Expected error for missing fixture")
	}
}

func TestApply_SeedsStore(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	fixture, err := Load(writeFixture(t, fixtureJSONC))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ctx := context.Background()
	appended, err := Apply(ctx, s, fixture)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if appended != 4 {
		t.Errorf("Expected 4 appended events, got %d", appended)
	}

	orders, err := s.ReadStream(ctx, "orders", types.ReadOptions{Direction: types.Forwards})
	if err != nil {
		t.Fatalf("ReadStream failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders events, got %d", len(orders))
	}
	if !orders[0].Event.IsJSON {
		t.Error("Expected data payload flagged as JSON")
	}
	if orders[1].Event.IsJSON {
		t.Error("Expected text payload flagged as opaque")
	}
	if got := string(orders[1].Event.Data); got != "printed copy" {
		t.Errorf("Expected text payload, got %q", got)
	}

	// The link fixture resolves to the first orders event.
	dashboard, err := s.ReadStream(ctx, "dashboard", types.ReadOptions{ResolveLinks: true})
	if err != nil {
		t.Fatalf("ReadStream failed: %v", err)
	}
	if dashboard[0].Event == nil || dashboard[0].Event.StreamID != "orders" {
		t.Errorf("Expected link resolved into orders, got %+v", dashboard[0].Event)
	}
}
