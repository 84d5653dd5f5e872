package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// mapKey translates a bubbletea key message into the browser's logical key
// codes. Keys the browser has no meaning for report ok=false.
func mapKey(msg tea.KeyMsg) (Key, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return Key{Kind: KeyUp}, true
	case tea.KeyDown:
		return Key{Kind: KeyDown}, true
	case tea.KeyLeft:
		return Key{Kind: KeyLeft}, true
	case tea.KeyRight:
		return Key{Kind: KeyRight}, true
	case tea.KeyEnter:
		return Key{Kind: KeyEnter}, true
	case tea.KeyEsc:
		return Key{Kind: KeyEsc}, true
	case tea.KeyBackspace:
		return Key{Kind: KeyBackspace}, true
	case tea.KeySpace:
		return Key{Kind: KeyRune, Rune: ' '}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return Key{Kind: KeyRune, Rune: msg.Runes[0]}, true
		}
	}
	return Key{}, false
}

// keyLegend returns the footer hint pairs for the current stage.
func (b *Browser) keyLegend() [][2]string {
	if b.lastError != nil {
		return [][2]string{{"q", "Close"}}
	}

	switch b.stage {
	case StageStreamPreview:
		return [][2]string{
			{"↑", "Scroll up"},
			{"↓", "Scroll down"},
			{"y", "Copy payload"},
			{"q", "Close"},
		}
	case StageStream:
		return [][2]string{
			{"↑", "Scroll up"},
			{"↓", "Scroll down"},
			{"Enter", "Select"},
			{"q", "Close"},
		}
	default:
		return [][2]string{
			{"↑", "Scroll up"},
			{"↓", "Scroll down"},
			{"→", "Move right"},
			{"←", "Move left"},
			{"/", "Search"},
			{"Enter", "Select"},
			{"q", "Quit"},
		}
	}
}
