package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/streamlens/streamlens/internal/client"
	"github.com/streamlens/streamlens/internal/config"
)

// refreshTickMsg drives the periodic refresh cadence.
type refreshTickMsg time.Time

// Model is the bubbletea host around the Browser. It owns the terminal
// dimensions and the refresh cadence; all navigation semantics live in
// Browser.
type Model struct {
	browser *Browser
	reader  client.Reader

	refreshInterval time.Duration
	width           int
	height          int
	statusMsg       string
}

// NewModel builds the TUI model and performs the activation load.
func NewModel(reader client.Reader, cfg config.Config) *Model {
	m := &Model{
		browser:         NewBrowser(cfg.CatalogLimit, cfg.EventLimit),
		reader:          reader,
		refreshInterval: time.Duration(cfg.RefreshInterval),
	}
	m.browser.Activate(context.Background(), reader)
	return m
}

// Run starts the interactive browser and blocks until it exits.
func Run(reader client.Reader, cfg config.Config) error {
	program := tea.NewProgram(NewModel(reader, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

// Init schedules the first refresh tick.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	interval := m.refreshInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// Update handles messages. Refresh runs inline: the browser's data loads
// are blocking by design, so no new input is processed while one is in
// flight.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		m.statusMsg = ""

		// Clipboard copy is a host affordance layered over the state
		// machine; the browser itself ignores 'y'.
		if msg.String() == "y" && m.browser.Stage() == StageStreamPreview && m.browser.Err() == nil {
			m.copyPayload()
			return m, nil
		}

		key, ok := mapKey(msg)
		if !ok {
			return m, nil
		}

		switch m.browser.HandleKey(key) {
		case SignalExit:
			return m, tea.Quit
		case SignalRefresh:
			m.browser.Refresh(context.Background(), m.reader)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case refreshTickMsg:
		m.browser.Refresh(context.Background(), m.reader)
		return m, m.tick()
	}

	return m, nil
}

func (m *Model) copyPayload() {
	ev := m.browser.CurrentEvent()
	if ev == nil || ev.Event == nil {
		return
	}
	if err := clipboard.WriteAll(string(ev.Event.Data)); err != nil {
		m.statusMsg = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.statusMsg = "Payload copied to clipboard"
}
