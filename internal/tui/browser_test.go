package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/streamlens/streamlens/internal/types"
)

// fakeReader serves canned events from memory. Streams absent from the map
// report types.ErrStreamNotFound, like the real backends do.
type fakeReader struct {
	streams map[string][]types.ResolvedEvent
	all     []types.ResolvedEvent

	failStream  string
	failErr     error
	streamReads int
	allReads    int
}

func (f *fakeReader) ReadStream(ctx context.Context, name string, opts types.ReadOptions) ([]types.ResolvedEvent, error) {
	f.streamReads++
	if f.failStream != "" && name == f.failStream {
		return nil, f.failErr
	}
	events, ok := f.streams[name]
	if !ok {
		return nil, fmt.Errorf("stream %q: %w", name, types.ErrStreamNotFound)
	}
	return events, nil
}

func (f *fakeReader) ReadAll(ctx context.Context, opts types.ReadOptions) ([]types.ResolvedEvent, error) {
	f.allReads++
	return f.all, nil
}

func eventIn(stream string, revision uint64) types.ResolvedEvent {
	return types.ResolvedEvent{Event: &types.EventRecord{
		StreamID:  stream,
		Revision:  revision,
		EventType: "TestEvent",
		Data:      []byte(`{"n":1}`),
		IsJSON:    true,
	}}
}

func creationEntry(stream string) types.ResolvedEvent {
	return types.ResolvedEvent{Event: &types.EventRecord{
		StreamID:  types.StreamsProjection,
		EventType: types.LinkEventType,
		Data:      []byte("0@" + stream),
	}}
}

// catalogReader returns a fake whose catalog has three created streams and
// duplicate activity on "orders".
func catalogReader() *fakeReader {
	return &fakeReader{
		streams: map[string][]types.ResolvedEvent{
			types.StreamsProjection: {
				creationEntry("orders"),
				creationEntry("payments"),
				creationEntry("shipments"),
			},
			"orders": {eventIn("orders", 2), eventIn("orders", 1), eventIn("orders", 0)},
		},
		all: []types.ResolvedEvent{
			eventIn("orders", 2),
			eventIn("payments", 0),
			eventIn("orders", 1),
		},
	}
}

func TestBrowser_QuitFromMainExits(t *testing.T) {
	b := NewBrowser(0, 0)

	if got := b.HandleKey(Key{Kind: KeyRune, Rune: 'q'}); got != SignalExit {
		t.Errorf("Expected SignalExit, got %v", got)
	}
}

func TestBrowser_RefreshPopulatesCatalog(t *testing.T) {
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), catalogReader())

	if err := b.Err(); err != nil {
		t.Fatalf("Refresh set an error: %v", err.Err)
	}

	created := b.LastCreated()
	if len(created) != 3 || created[0] != "orders" || created[2] != "shipments" {
		t.Errorf("Unexpected created list: %v", created)
	}

	changed := b.RecentlyChanged()
	if len(changed) != 2 {
		t.Fatalf("Expected 2 deduplicated changed streams, got %v", changed)
	}
	if changed[0] != "orders" || changed[1] != "payments" {
		t.Errorf("Unexpected changed list: %v", changed)
	}
}

func TestBrowser_TabToggleResetsSelection(t *testing.T) {
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), catalogReader())

	b.HandleKey(Key{Kind: KeyDown})
	if b.Selected() != 1 {
		t.Fatalf("Expected selection 1, got %d", b.Selected())
	}

	b.HandleKey(Key{Kind: KeyRight})
	if b.SelectedTab() != 1 {
		t.Errorf("Expected tab 1 after right, got %d", b.SelectedTab())
	}
	if b.Selected() != 0 {
		t.Errorf("Expected selection reset to 0, got %d", b.Selected())
	}

	b.HandleKey(Key{Kind: KeyLeft})
	if b.SelectedTab() != 0 {
		t.Errorf("Expected tab back to 0 after left, got %d", b.SelectedTab())
	}
}

func TestBrowser_DownStopsAtLastRow(t *testing.T) {
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), catalogReader())

	for i := 0; i < 10; i++ {
		b.HandleKey(Key{Kind: KeyDown})
	}
	if b.Selected() != 2 {
		t.Errorf("Expected selection pinned to last row 2, got %d", b.Selected())
	}

	for i := 0; i < 10; i++ {
		b.HandleKey(Key{Kind: KeyUp})
	}
	if b.Selected() != 0 {
		t.Errorf("Expected selection pinned to 0, got %d", b.Selected())
	}
}

func TestBrowser_DownOnEmptyListStaysPut(t *testing.T) {
	b := NewBrowser(0, 0)

	b.HandleKey(Key{Kind: KeyDown})
	if b.Selected() != 0 {
		t.Errorf("Expected selection 0 on empty list, got %d", b.Selected())
	}
}

func TestBrowser_DownOnEmptyEventListStaysPut(t *testing.T) {
	b := NewBrowser(0, 0)

	// Submit a search without any refresh having run: the stream stage
	// with an empty event list.
	b.HandleKey(Key{Kind: KeyRune, Rune: '/'})
	b.HandleKey(Key{Kind: KeyRune, Rune: 'x'})
	b.HandleKey(Key{Kind: KeyEnter})
	if b.Stage() != StageStream {
		t.Fatalf("Expected stream stage, got %v", b.Stage())
	}

	b.HandleKey(Key{Kind: KeyDown})
	if b.Selected() != 0 {
		t.Errorf("Expected selection 0 on empty event list, got %d", b.Selected())
	}
}

func TestBrowser_EnterOnEmptyListIsNoop(t *testing.T) {
	b := NewBrowser(0, 0)

	if got := b.HandleKey(Key{Kind: KeyEnter}); got != SignalNone {
		t.Errorf("Expected SignalNone, got %v", got)
	}
	if b.Stage() != StageMain {
		t.Errorf("Expected to stay in main, got stage %v", b.Stage())
	}
}

func TestBrowser_EnterDrillsIntoStream(t *testing.T) {
	r := catalogReader()
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), r)

	if got := b.HandleKey(Key{Kind: KeyEnter}); got != SignalRefresh {
		t.Fatalf("Expected SignalRefresh, got %v", got)
	}
	if b.Stage() != StageStream {
		t.Fatalf("Expected stream stage, got %v", b.Stage())
	}
	name, ok := b.SelectedStream()
	if !ok || name != "orders" {
		t.Fatalf("Expected selected stream orders, got %q (%v)", name, ok)
	}

	b.Refresh(context.Background(), r)
	if len(b.Events()) != 3 {
		t.Errorf("Expected 3 events, got %d", len(b.Events()))
	}

	// q returns to main and resets the row.
	b.HandleKey(Key{Kind: KeyDown})
	b.HandleKey(Key{Kind: KeyRune, Rune: 'q'})
	if b.Stage() != StageMain {
		t.Errorf("Expected main stage after q, got %v", b.Stage())
	}
	if b.Selected() != 0 {
		t.Errorf("Expected selection reset, got %d", b.Selected())
	}
}

func TestBrowser_SearchTypingAndSubmit(t *testing.T) {
	b := NewBrowser(0, 0)

	b.HandleKey(Key{Kind: KeyRune, Rune: '/'})
	if b.Stage() != StageSearch {
		t.Fatalf("Expected search stage, got %v", b.Stage())
	}

	// 'q' is a literal character while searching, not quit.
	for _, r := range "seqx" {
		b.HandleKey(Key{Kind: KeyRune, Rune: r})
	}
	b.HandleKey(Key{Kind: KeyBackspace})
	if got := b.SearchText(); got != "seq" {
		t.Fatalf("Expected buffer 'seq', got %q", got)
	}

	if got := b.HandleKey(Key{Kind: KeyEnter}); got != SignalRefresh {
		t.Errorf("Expected SignalRefresh on submit, got %v", got)
	}
	if b.Stage() != StageStream {
		t.Errorf("Expected stream stage after submit, got %v", b.Stage())
	}
	name, ok := b.SelectedStream()
	if !ok || name != "seq" {
		t.Errorf("Expected selected stream 'seq', got %q (%v)", name, ok)
	}
	if b.SearchText() != "" {
		t.Errorf("Expected emptied buffer, got %q", b.SearchText())
	}
}

func TestBrowser_SearchEscReturnsToMain(t *testing.T) {
	b := NewBrowser(0, 0)
	b.HandleKey(Key{Kind: KeyRune, Rune: '/'})
	b.HandleKey(Key{Kind: KeyRune, Rune: 'a'})
	b.HandleKey(Key{Kind: KeyEsc})

	if b.Stage() != StageMain {
		t.Errorf("Expected main stage after esc, got %v", b.Stage())
	}
}

func TestBrowser_RefreshFailureRaisesOverlay(t *testing.T) {
	r := catalogReader()
	r.failStream = "orders"
	r.failErr = errors.New("connection reset")

	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), r)
	b.HandleKey(Key{Kind: KeyEnter}) // drill into orders
	b.Refresh(context.Background(), r)

	overlay := b.Err()
	if overlay == nil {
		t.Fatal("Expected error overlay after failed refresh")
	}
	if overlay.Stream != "orders" {
		t.Errorf("Expected overlay stream 'orders', got %q", overlay.Stream)
	}
	if b.Events() != nil {
		t.Errorf("Expected events cleared on failure, got %d", len(b.Events()))
	}

	// Every key but the dismiss key is swallowed.
	if got := b.HandleKey(Key{Kind: KeyEnter}); got != SignalNone {
		t.Errorf("Expected SignalNone under overlay, got %v", got)
	}
	if b.Stage() != StageStream {
		t.Errorf("Stage changed under overlay: %v", b.Stage())
	}

	// Refresh is inert until the overlay is dismissed.
	reads := r.streamReads
	b.Refresh(context.Background(), r)
	if r.streamReads != reads {
		t.Error("Expected no reads while overlay pending")
	}

	b.HandleKey(Key{Kind: KeyRune, Rune: 'q'})
	if b.Err() != nil {
		t.Error("Expected overlay dismissed")
	}
	if b.Stage() != StageMain {
		t.Errorf("Expected main stage after dismiss, got %v", b.Stage())
	}
	if _, ok := b.SelectedStream(); ok {
		t.Error("Expected stream selection cleared after dismiss")
	}
}

func TestBrowser_PreviewScrollAndClose(t *testing.T) {
	r := catalogReader()
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), r)
	b.HandleKey(Key{Kind: KeyEnter})
	b.Refresh(context.Background(), r)
	b.HandleKey(Key{Kind: KeyEnter})

	if b.Stage() != StageStreamPreview {
		t.Fatalf("Expected preview stage, got %v", b.Stage())
	}

	// Refresh is a no-op under the detail view.
	reads := r.streamReads
	b.Refresh(context.Background(), r)
	if r.streamReads != reads {
		t.Error("Expected no reads while previewing")
	}

	b.HandleKey(Key{Kind: KeyDown})
	b.HandleKey(Key{Kind: KeyDown})
	if b.Scroll().Offset() != 2 {
		t.Errorf("Expected scroll offset 2, got %d", b.Scroll().Offset())
	}

	b.HandleKey(Key{Kind: KeyRune, Rune: 'q'})
	if b.Stage() != StageStream {
		t.Errorf("Expected stream stage after q, got %v", b.Stage())
	}
	if b.Scroll().Offset() != 0 {
		t.Errorf("Expected scroll reset, got %d", b.Scroll().Offset())
	}
}

func TestBrowser_SelectionClampedAfterShrink(t *testing.T) {
	r := catalogReader()
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), r)
	b.HandleKey(Key{Kind: KeyDown})
	b.HandleKey(Key{Kind: KeyDown})
	if b.Selected() != 2 {
		t.Fatalf("Expected selection 2, got %d", b.Selected())
	}

	r.streams[types.StreamsProjection] = []types.ResolvedEvent{creationEntry("orders")}
	b.Refresh(context.Background(), r)
	if b.Selected() != 0 {
		t.Errorf("Expected selection clamped to 0, got %d", b.Selected())
	}
}

func TestBrowser_CurrentEvent(t *testing.T) {
	r := catalogReader()
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), r)

	if ev := b.CurrentEvent(); ev != nil {
		t.Errorf("Expected nil current event with no stream loaded, got %+v", ev)
	}

	b.HandleKey(Key{Kind: KeyEnter})
	b.Refresh(context.Background(), r)
	b.HandleKey(Key{Kind: KeyDown})

	ev := b.CurrentEvent()
	if ev == nil {
		t.Fatal("Expected current event")
	}
	if ev.Event.Revision != 1 {
		t.Errorf("Expected revision 1, got %d", ev.Event.Revision)
	}
}

func TestBrowser_DeactivateResetsEverything(t *testing.T) {
	r := catalogReader()
	b := NewBrowser(0, 0)
	b.Refresh(context.Background(), r)
	b.HandleKey(Key{Kind: KeyEnter})
	b.Refresh(context.Background(), r)
	b.HandleKey(Key{Kind: KeyEnter})
	b.HandleKey(Key{Kind: KeyDown})

	b.Deactivate()

	if b.Stage() != StageMain {
		t.Errorf("Expected main stage, got %v", b.Stage())
	}
	if b.Selected() != 0 || b.SelectedTab() != 0 {
		t.Errorf("Expected selection reset, got row %d tab %d", b.Selected(), b.SelectedTab())
	}
	if b.Scroll().Offset() != 0 {
		t.Errorf("Expected scroll reset, got %d", b.Scroll().Offset())
	}
	if len(b.LastCreated()) != 0 || len(b.Events()) != 0 {
		t.Error("Expected model cleared")
	}
	if _, ok := b.SelectedStream(); ok {
		t.Error("Expected stream selection cleared")
	}
}
