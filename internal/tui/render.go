package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamlens/streamlens/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleRow = lipgloss.NewStyle().
			Foreground(colorGray)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleErrorPanel = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorYellow).
			Foreground(colorYellow).
			Padding(1, 2)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1, 2)
)

var streamTableHeaders = []string{"Event #", "Name", "Type", "Created Date"}

const createdDateFormat = "2006-01-02 15:04:05"

// View renders the current stage. Rendering is a pure read of the model;
// the only mutation is the idempotent scroll clamp.
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	contentHeight := m.height - FooterHeight

	var view string
	if m.browser.Err() != nil {
		view = m.renderErrorModal(contentHeight)
	} else {
		switch m.browser.Stage() {
		case StageSearch:
			view = m.renderSearchModal(contentHeight)
		case StageStream:
			view = m.renderStream(contentHeight)
		case StageStreamPreview:
			view = m.renderPreview(contentHeight)
		default:
			view = m.renderCatalog(contentHeight)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, view, m.renderFooter())
}

// renderCatalog shows the two summary lists side by side.
func (m *Model) renderCatalog(height int) string {
	paneWidth := m.width / 2

	left := m.renderListPane("Recently Created Streams", m.browser.LastCreated(), 0, paneWidth, height)
	right := m.renderListPane("Recently Changed Streams", m.browser.RecentlyChanged(), 1, m.width-paneWidth, height)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) renderListPane(title string, rows []string, tab, width, height int) string {
	var out strings.Builder
	out.WriteString(styleHeader.Render(title))
	out.WriteString("\n\n")

	selected := -1
	if m.browser.SelectedTab() == tab {
		selected = m.browser.Selected()
	}

	for i, row := range rows {
		if i >= height-3 {
			break
		}
		line := truncate(row, width-2)
		if i == selected {
			out.WriteString(styleSelected.Render(line))
		} else {
			out.WriteString(styleRow.Render(line))
		}
		out.WriteByte('\n')
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		Render(out.String())
}

// renderSearchModal draws the stream-name input over a blank background.
func (m *Model) renderSearchModal(height int) string {
	buffer := m.browser.SearchText()

	inputWidth := SearchModalWidth - 18
	input := buffer
	if pad := inputWidth - len(buffer); pad > 0 {
		input += strings.Repeat("_", pad)
	}

	var body strings.Builder
	body.WriteString(styleTitle.Render("Search"))
	body.WriteString("\n\n")
	body.WriteString(styleSubtle.Render("Stream name: "))
	body.WriteString(input)

	known := append(append([]string(nil), m.browser.LastCreated()...), m.browser.RecentlyChanged()...)
	if hints := m.browser.search.Matches(known, SearchHintCount); len(hints) > 0 {
		body.WriteString("\n\n")
		body.WriteString(styleSubtle.Render("Matches: " + strings.Join(hints, ", ")))
	}

	modal := styleModal.Width(SearchModalWidth).Render(body.String())
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, modal)
}

// renderStream shows the selected stream's event table.
func (m *Model) renderStream(height int) string {
	name, _ := m.browser.SelectedStream()

	var out strings.Builder
	out.WriteString(styleTitle.Render(fmt.Sprintf("Event Stream '%s'", name)))
	out.WriteString("\n\n")
	out.WriteString(m.renderEventTable(m.browser.Selected(), height-3))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		Render(out.String())
}

// renderPreview shows the highlighted event row plus its scrollable payload.
func (m *Model) renderPreview(height int) string {
	ev := m.browser.CurrentEvent()

	title := "Event"
	if ev != nil {
		orig := ev.OriginalEvent()
		title = fmt.Sprintf("Event '%d@%s'", orig.Revision, orig.StreamID)
	}

	var head strings.Builder
	head.WriteString(styleTitle.Render(title))
	head.WriteString("\n\n")
	head.WriteString(m.renderHeaderRow())
	head.WriteByte('\n')
	if ev != nil {
		head.WriteString(styleSelected.Render(m.renderEventRow(*ev)))
	}

	content := previewContent(ev)
	paneHeight := height - PreviewHeaderHeight
	if paneHeight < 1 {
		paneHeight = 1
	}

	// Lazy clamp: the offset may have been pushed past the end since the
	// last frame, or the terminal may have been resized.
	offset := m.browser.Scroll().Clamp(paneHeight, lipgloss.Height(content))

	pane := viewport.New(m.width, paneHeight)
	pane.SetContent(content)
	pane.SetYOffset(offset)

	body := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, true, false).
		Width(m.width).
		Render(pane.View())

	return lipgloss.JoinVertical(lipgloss.Left, head.String(), body)
}

// renderErrorModal draws the modal error panel with its fixed dismiss
// instruction.
func (m *Model) renderErrorModal(height int) string {
	panel := styleErrorPanel.Width(ErrorModalWidth).Render(
		styleTitle.Render("Error") + "\n\n" + m.browser.Err().Message(),
	)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, panel)
}

func (m *Model) renderFooter() string {
	if m.statusMsg != "" {
		return styleSubtle.Render(m.statusMsg)
	}

	parts := make([]string, 0, 8)
	for _, pair := range m.browser.keyLegend() {
		parts = append(parts, fmt.Sprintf("%s %s", styleHeader.Render(pair[0]), pair[1]))
	}
	return styleSubtle.Render(strings.Join(parts, "  ·  "))
}

func (m *Model) renderEventTable(selected, height int) string {
	var out strings.Builder
	out.WriteString(m.renderHeaderRow())
	out.WriteByte('\n')

	for i, ev := range m.browser.Events() {
		if i >= height-1 {
			break
		}
		row := m.renderEventRow(ev)
		if i == selected {
			out.WriteString(styleSelected.Render(row))
		} else {
			out.WriteString(styleRow.Render(row))
		}
		out.WriteByte('\n')
	}

	return out.String()
}

func (m *Model) renderHeaderRow() string {
	colWidth := m.columnWidth()
	cells := make([]string, 0, len(streamTableHeaders))
	for _, h := range streamTableHeaders {
		cells = append(cells, pad(h, colWidth))
	}
	return styleHeader.Render(strings.Join(cells, ""))
}

func (m *Model) renderEventRow(ev types.ResolvedEvent) string {
	colWidth := m.columnWidth()

	orig := ev.OriginalEvent()
	revision := fmt.Sprintf("%d", orig.Revision)

	name, eventType, created := "-", "-", "-"
	if target := ev.Event; target != nil {
		name = fmt.Sprintf("%d@%s", target.Revision, target.StreamID)
		eventType = target.EventType
		created = target.Created.Format(createdDateFormat)
	}

	return pad(revision, colWidth) + pad(name, colWidth) + pad(eventType, colWidth) + pad(created, colWidth)
}

func (m *Model) columnWidth() int {
	w := m.width / len(streamTableHeaders)
	if w < 8 {
		w = 8
	}
	return w
}

func pad(s string, width int) string {
	s = truncate(s, width-1)
	if len(s) < width {
		s += strings.Repeat(" ", width-len(s))
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
