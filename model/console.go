package model

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dotoki2k/terminal-blog/terminal"
)

// ConsoleModel is a scrollable viewport showing the interpreter's output log.
// Every result replaces the whole view: the log holds one command at a time.
type ConsoleModel struct {
	vp       viewport.Model
	entries  []terminal.Entry
	commands []string // data-command targets of the current log
	width    int
	height   int
}

// NewConsole constructs a ConsoleModel sized to width x height.
func NewConsole(width, height int) ConsoleModel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return ConsoleModel{
		vp:     vp,
		width:  width,
		height: height,
	}
}

// SetResult shows the log carried by r. Blank input leaves the view alone.
func (m *ConsoleModel) SetResult(r terminal.Result) {
	if r.Noop {
		return
	}
	m.Show(r.Entries)
	if r.ScrollToEnd {
		m.vp.GotoBottom()
	}
}

// Show replaces the log with entries, keeping the scroll position at the top.
func (m *ConsoleModel) Show(entries []terminal.Entry) {
	m.entries = entries
	m.commands = DataCommands(entries)
	m.refresh()
}

// Width returns the layout width.
func (m ConsoleModel) Width() int {
	return m.width
}

// Commands returns the clickable commands of the current log, such as the
// "cat <slug>" rows of a listing.
func (m ConsoleModel) Commands() []string {
	return m.commands
}

// SetSize resizes the viewport and re-lays the log out for the new width.
func (m *ConsoleModel) SetSize(width, height int) {
	atBottom := m.vp.AtBottom()
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
	if atBottom {
		m.vp.GotoBottom()
	}
}

// Init satisfies tea.Model.
func (m ConsoleModel) Init() tea.Cmd {
	return nil
}

// Update forwards keyboard and mouse events to the viewport.
func (m ConsoleModel) Update(msg tea.Msg) (ConsoleModel, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ConsoleModel) View() string {
	return m.vp.View()
}

// Content returns the laid out log without viewport clipping.
func (m ConsoleModel) Content() string {
	return RenderEntries(m.entries, m.width)
}

func (m *ConsoleModel) refresh() {
	m.vp.SetContent(m.Content())
}
