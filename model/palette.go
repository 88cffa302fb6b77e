package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dotoki2k/terminal-blog/style"
	"github.com/dotoki2k/terminal-blog/terminal"
)

// PaletteExecuteMsg is sent when the user selects a command that takes no
// argument.
type PaletteExecuteMsg struct {
	Command string
}

// PaletteFillMsg is sent when the selected command needs an argument: the
// front-end pre-fills the input with Prefix and lets the user finish it.
type PaletteFillMsg struct {
	Prefix string
}

// PaletteDismissMsg is sent when the user closes the palette.
type PaletteDismissMsg struct{}

// PaletteItem is a single entry in the command palette.
type PaletteItem struct {
	Usage       string // e.g. "cat <slug>"
	Description string // e.g. "Read a post"
}

// PaletteItems converts the interpreter's help listing into palette entries.
func PaletteItems(items []terminal.HelpItem) []PaletteItem {
	out := make([]PaletteItem, 0, len(items))
	for _, it := range items {
		out = append(out, PaletteItem{Usage: it.Usage, Description: it.Description})
	}
	return out
}

// selectMsg maps an item to the message its selection produces.
func (p PaletteItem) selectMsg() tea.Msg {
	if i := strings.Index(p.Usage, "<"); i >= 0 {
		return PaletteFillMsg{Prefix: p.Usage[:i]}
	}
	return PaletteExecuteMsg{Command: p.Usage}
}

// rank orders an item against a lowercase query: usage prefix first, then a
// usage substring, then a description substring. -1 means no match.
func (p PaletteItem) rank(query string) int {
	usage := strings.ToLower(p.Usage)
	switch {
	case strings.HasPrefix(usage, query):
		return 0
	case strings.Contains(usage, query):
		return 1
	case strings.Contains(strings.ToLower(p.Description), query):
		return 2
	}
	return -1
}

type paletteKeys struct {
	close, choose, up, down key.Binding
}

var paletteKeyMap = paletteKeys{
	close:  key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	choose: key.NewBinding(key.WithKeys("enter")),
	up:     key.NewBinding(key.WithKeys("up", "ctrl+k")),
	down:   key.NewBinding(key.WithKeys("down", "ctrl+j")),
}

// PaletteModel lists the interpreter's commands in an overlay. Typing narrows
// the list; enter runs the highlighted command or, when it takes an argument,
// hands its prefix back to the input line.
type PaletteModel struct {
	query  textinput.Model
	all    []PaletteItem
	shown  []PaletteItem
	sel    int
	open   bool
	w, h   int
	usageW int
}

// NewPalette returns a closed palette.
func NewPalette() PaletteModel {
	q := textinput.New()
	q.Prompt = "› "
	q.Placeholder = "filter commands"
	q.PromptStyle = lipgloss.NewStyle().Foreground(style.Primary)
	return PaletteModel{query: q}
}

const maxVisible = 12

// Open shows the palette over a width x height screen and returns the
// cursor blink command of the filter field.
func (m *PaletteModel) Open(items []PaletteItem, width, height int) tea.Cmd {
	m.all, m.shown, m.sel = items, items, 0
	m.open, m.w, m.h = true, width, height
	m.usageW = 0
	for _, it := range items {
		m.usageW = max(m.usageW, lipgloss.Width(it.Usage))
	}
	m.query.Reset()
	m.query.Width = max(width/2-6, 10)
	return m.query.Focus()
}

// IsActive reports whether the palette is shown.
func (m PaletteModel) IsActive() bool { return m.open }

// Filtered returns the items matching the current filter, best first.
func (m PaletteModel) Filtered() []PaletteItem { return m.shown }

func (m *PaletteModel) hide() {
	m.open = false
	m.query.Blur()
}

func (m PaletteModel) Update(msg tea.Msg) (PaletteModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, paletteKeyMap.close):
			m.hide()
			return m, func() tea.Msg { return PaletteDismissMsg{} }
		case key.Matches(k, paletteKeyMap.choose):
			if len(m.shown) == 0 {
				return m, nil
			}
			out := m.shown[m.sel].selectMsg()
			m.hide()
			return m, func() tea.Msg { return out }
		case key.Matches(k, paletteKeyMap.up):
			m.sel = max(m.sel-1, 0)
			return m, nil
		case key.Matches(k, paletteKeyMap.down):
			m.sel = min(m.sel+1, max(len(m.shown)-1, 0))
			return m, nil
		}
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() != before {
		m.refilter()
	}
	return m, cmd
}

func (m *PaletteModel) refilter() {
	m.sel = 0
	q := strings.ToLower(strings.TrimSpace(m.query.Value()))
	if q == "" {
		m.shown = m.all
		return
	}
	var buckets [3][]PaletteItem
	for _, it := range m.all {
		if r := it.rank(q); r >= 0 {
			buckets[r] = append(buckets[r], it)
		}
	}
	m.shown = append(append(buckets[0], buckets[1]...), buckets[2]...)
}

// visibleRange returns the window of items around the selection.
func (m PaletteModel) visibleRange() (start, end int) {
	n := len(m.shown)
	if n <= maxVisible {
		return 0, n
	}
	start = min(max(m.sel-maxVisible/2, 0), n-maxVisible)
	return start, start + maxVisible
}

// View renders the palette centered on the screen.
func (m PaletteModel) View() string {
	if !m.open {
		return ""
	}
	boxW := min(max(m.w/2, 50), m.w-4)

	title := lipgloss.NewStyle().Foreground(style.Primary).Bold(true)
	usage := lipgloss.NewStyle().Foreground(style.Secondary).Width(m.usageW + 2)
	desc := lipgloss.NewStyle().Foreground(style.Dim)

	rows := []string{title.Render("Commands"), m.query.View(), style.Rule(boxW - 4)}
	if len(m.shown) == 0 {
		rows = append(rows, desc.Render("  nothing matches"))
	}
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		it := m.shown[i]
		marker, u, d := "  ", usage, desc
		if i == m.sel {
			marker = title.Render("› ")
			u = u.Bold(true)
			d = d.Foreground(style.Muted)
		}
		rows = append(rows, marker+u.Render(it.Usage)+d.Render(it.Description))
	}
	if hidden := len(m.shown) - (end - start); hidden > 0 {
		rows = append(rows, desc.Render(fmt.Sprintf("  +%d more", hidden)))
	}

	box := style.OverlayBorder.Width(boxW).Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.w, m.h, lipgloss.Center, lipgloss.Center, box)
}
