package tui

import (
	"context"

	"github.com/streamlens/streamlens/internal/client"
	"github.com/streamlens/streamlens/internal/loader"
	"github.com/streamlens/streamlens/internal/types"
)

// Stage is the browser's navigation stage.
type Stage int

const (
	StageMain Stage = iota
	StageSearch
	StageStream
	StageStreamPreview
)

// Signal is the browser's answer to one key press. The host acts on it:
// SignalRefresh re-invokes Refresh, SignalExit terminates the application.
type Signal int

const (
	SignalNone Signal = iota
	SignalRefresh
	SignalExit
)

// KeyKind classifies a logical key.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEsc
	KeyBackspace
)

// Key is one logical key code as delivered by the host.
type Key struct {
	Kind KeyKind
	Rune rune
}

// catalogModel is the data shown by the browser: the two summary lists, the
// drilled-into stream, and its event list. The event list is always
// replaced wholesale on refresh.
type catalogModel struct {
	lastCreated     []string
	recentlyChanged []string
	selectedStream  string
	streamSelected  bool
	events          []types.ResolvedEvent
}

func (m *catalogModel) clear() {
	m.lastCreated = nil
	m.recentlyChanged = nil
	m.selectedStream = ""
	m.streamSelected = false
	m.events = nil
}

// Browser is the navigation state machine of the stream browser. It owns
// the stage, the selection indices, the search buffer, the preview scroll
// offset, the catalog model, and the single error slot. All mutation goes
// through HandleKey and Refresh; rendering only reads (the scroll clamp is
// idempotent).
type Browser struct {
	stage       Stage
	selectedTab int
	selected    int
	scroll      ScrollState
	search      SearchBuffer
	model       catalogModel
	lastError   *ErrorOverlay

	catalogLimit uint64
	eventLimit   uint64
}

// NewBrowser builds a browser with the given list bounds. Zero limits fall
// back to the defaults (20 catalog entries, 500 events).
func NewBrowser(catalogLimit, eventLimit uint64) *Browser {
	if catalogLimit == 0 {
		catalogLimit = loader.DefaultCatalogLimit
	}
	if eventLimit == 0 {
		eventLimit = loader.DefaultEventLimit
	}
	return &Browser{
		catalogLimit: catalogLimit,
		eventLimit:   eventLimit,
	}
}

// HandleKey processes one logical key and returns the signal the host must
// act on. A pending error intercepts every key except its dismiss key.
func (b *Browser) HandleKey(k Key) Signal {
	if b.lastError != nil {
		if k.Kind == KeyRune && (k.Rune == 'q' || k.Rune == 'Q') {
			b.lastError = nil
			b.stage = StageMain
			b.model.selectedStream = ""
			b.model.streamSelected = false
			b.selected = 0
		}
		return SignalNone
	}

	if b.stage == StageSearch {
		return b.handleSearchKey(k)
	}

	switch k.Kind {
	case KeyRune:
		switch k.Rune {
		case 'q', 'Q':
			switch b.stage {
			case StageMain:
				return SignalExit
			case StageStream:
				b.stage = StageMain
				b.selected = 0
			case StageStreamPreview:
				b.scroll.Reset()
				b.stage = StageStream
			}
		case '/':
			if b.stage == StageMain {
				b.stage = StageSearch
			}
		}

	case KeyLeft, KeyRight:
		if b.stage == StageMain {
			b.selectedTab = (b.selectedTab + 1) % 2
			b.selected = 0
		}

	case KeyUp:
		if b.stage == StageStreamPreview {
			b.scroll.Up()
		} else if b.selected > 0 {
			b.selected--
		}

	case KeyDown:
		switch b.stage {
		case StageMain:
			// selected+1 < len rather than selected < len-1: the latter
			// underflows on an empty list.
			if b.selected+1 < b.activeListLen() {
				b.selected++
			}
		case StageStream:
			if b.selected+1 < len(b.model.events) {
				b.selected++
			}
		case StageStreamPreview:
			b.scroll.Down()
		}

	case KeyEnter:
		switch b.stage {
		case StageMain:
			rows := b.activeList()
			if len(rows) == 0 {
				return SignalNone
			}
			b.model.selectedStream = rows[b.selected]
			b.model.streamSelected = true
			b.selected = 0
			b.stage = StageStream
			return SignalRefresh
		case StageStream:
			if len(b.model.events) == 0 {
				return SignalNone
			}
			b.stage = StageStreamPreview
			return SignalRefresh
		}
	}

	return SignalNone
}

func (b *Browser) handleSearchKey(k Key) Signal {
	switch k.Kind {
	case KeyEsc:
		b.stage = StageMain
	case KeyBackspace:
		b.search.Pop()
	case KeyEnter:
		b.selected = 0
		b.stage = StageStream
		b.model.selectedStream = b.search.Take()
		b.model.streamSelected = true
		return SignalRefresh
	case KeyRune:
		b.search.Append(k.Rune)
	}
	return SignalNone
}

// Refresh re-invokes the appropriate loader and updates the model. It
// blocks until the load completes or fails: no input is processed
// concurrently. Refresh is a deliberate no-op in StreamPreview (no reload
// under the detail view) and while an error is pending (the overlay blocks
// everything until dismissed).
func (b *Browser) Refresh(ctx context.Context, r client.Reader) {
	if b.stage == StageStreamPreview {
		return
	}
	if b.lastError != nil {
		return
	}

	if b.model.streamSelected {
		events, err := loader.LoadStreamEvents(ctx, r, b.model.selectedStream, b.eventLimit)
		if err != nil {
			// Stale data never survives a failed refresh.
			b.lastError = &ErrorOverlay{Stream: b.model.selectedStream, Err: err}
			b.model.events = nil
			return
		}
		b.model.events = events
		b.clampSelection()
		return
	}

	catalog, err := loader.LoadCatalog(ctx, r, b.catalogLimit)
	if err != nil {
		b.lastError = &ErrorOverlay{Err: err}
		return
	}
	b.model.lastCreated = catalog.LastCreated
	b.model.recentlyChanged = catalog.RecentlyChanged
	b.clampSelection()
}

// Activate populates the catalog; it is called once when the browser gains
// the screen.
func (b *Browser) Activate(ctx context.Context, r client.Reader) {
	b.Refresh(ctx, r)
}

// Deactivate resets every piece of navigation and model state.
func (b *Browser) Deactivate() {
	b.stage = StageMain
	b.selectedTab = 0
	b.selected = 0
	b.scroll.Reset()
	b.search.Take()
	b.model.clear()
	b.lastError = nil
}

// clampSelection keeps the row index inside the freshly replaced list.
func (b *Browser) clampSelection() {
	var length int
	switch b.stage {
	case StageStream, StageStreamPreview:
		length = len(b.model.events)
	default:
		length = b.activeListLen()
	}

	if length == 0 {
		b.selected = 0
	} else if b.selected >= length {
		b.selected = length - 1
	}
}

func (b *Browser) activeList() []string {
	if b.selectedTab == 0 {
		return b.model.lastCreated
	}
	return b.model.recentlyChanged
}

func (b *Browser) activeListLen() int {
	return len(b.activeList())
}

// Stage returns the current navigation stage.
func (b *Browser) Stage() Stage { return b.stage }

// SelectedTab returns the active summary list (0 or 1).
func (b *Browser) SelectedTab() int { return b.selectedTab }

// Selected returns the highlighted row index of the active list.
func (b *Browser) Selected() int { return b.selected }

// Scroll exposes the preview scroll state for rendering.
func (b *Browser) Scroll() *ScrollState { return &b.scroll }

// SearchText returns the search buffer's current contents.
func (b *Browser) SearchText() string { return b.search.String() }

// LastCreated returns the recently created streams, most-recent-first.
func (b *Browser) LastCreated() []string { return b.model.lastCreated }

// RecentlyChanged returns the recently changed streams, most-recent-first.
func (b *Browser) RecentlyChanged() []string { return b.model.recentlyChanged }

// SelectedStream returns the drilled-into stream name, if any.
func (b *Browser) SelectedStream() (string, bool) {
	return b.model.selectedStream, b.model.streamSelected
}

// Events returns the selected stream's events, most-recent-first.
func (b *Browser) Events() []types.ResolvedEvent { return b.model.events }

// CurrentEvent returns the highlighted event, or nil when the list is empty.
func (b *Browser) CurrentEvent() *types.ResolvedEvent {
	if b.selected < 0 || b.selected >= len(b.model.events) {
		return nil
	}
	return &b.model.events[b.selected]
}

// Err returns the pending error overlay, if any.
func (b *Browser) Err() *ErrorOverlay { return b.lastError }
