package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dotoki2k/terminal-blog/style"
)

// SearchSubmitMsg is sent when the user confirms a keyword.
type SearchSubmitMsg struct {
	Keyword string
}

// Command is the input line that runs the search.
func (m SearchSubmitMsg) Command() string {
	return "search " + m.Keyword
}

// SearchCancelMsg is sent when the user closes the prompt.
type SearchCancelMsg struct{}

// SearchModel is a one-line keyword prompt overlay.
type SearchModel struct {
	active bool
	ti     textinput.Model
	width  int
}

// NewSearch constructs a SearchModel.
func NewSearch() SearchModel {
	ti := textinput.New()
	ti.Placeholder = "keyword"
	ti.Prompt = "search: "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(style.Primary)
	ti.CharLimit = 256
	return SearchModel{ti: ti}
}

// Open shows the prompt with an empty field.
func (m *SearchModel) Open(width int) tea.Cmd {
	m.active = true
	m.width = width
	m.ti.SetValue("")
	m.ti.Width = width - 14
	return m.ti.Focus()
}

// IsActive reports whether the prompt is visible.
func (m SearchModel) IsActive() bool { return m.active }

func (m *SearchModel) close() {
	m.active = false
	m.ti.Blur()
}

// Update handles keyboard input while the prompt is open. Submitting a blank
// keyword just closes it.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.close()
			return m, func() tea.Msg { return SearchCancelMsg{} }
		case tea.KeyEnter:
			keyword := strings.TrimSpace(m.ti.Value())
			m.close()
			if keyword == "" {
				return m, func() tea.Msg { return SearchCancelMsg{} }
			}
			return m, func() tea.Msg { return SearchSubmitMsg{Keyword: keyword} }
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// View renders the prompt in a bordered box.
func (m SearchModel) View() string {
	if !m.active {
		return ""
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Border).
		Padding(0, 1)
	if m.width > 0 {
		box = box.Width(m.width - 2)
	}
	return box.Render(m.ti.View() + "\n" + style.Hint.Render("Enter search · Esc cancel"))
}
