package model

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dotoki2k/terminal-blog/style"
)

// HeaderModel renders the one-line title bar:
//
//	My Awesome Blog · firestore · ctrl+p commands
//
// It is static apart from its setters.
type HeaderModel struct {
	title string
	store string
	width int
}

// NewHeader returns a header for the blog title.
func NewHeader(title string) HeaderModel {
	return HeaderModel{title: title}
}

// SetStore names the active content store.
func (m *HeaderModel) SetStore(name string) {
	m.store = name
}

// SetWidth constrains the header to the terminal width.
func (m *HeaderModel) SetWidth(w int) {
	m.width = w
}

// View renders the header line and a rule under it.
func (m HeaderModel) View() string {
	muted := lipgloss.NewStyle().Foreground(style.Muted)
	sep := muted.Render(" · ")

	line := style.HeaderTitle.Render(m.title)
	if m.store != "" {
		line += sep + style.HeaderDetail.Render(m.store)
	}
	line += sep + style.Hint.Render("ctrl+p commands · ctrl+o posts · ctrl+f search")
	if m.width <= 0 {
		return line
	}
	return line + "\n" + style.Rule(m.width)
}
