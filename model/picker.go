package model

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dotoki2k/terminal-blog/blog"
	"github.com/dotoki2k/terminal-blog/style"
)

// PickerItem is a single post in the picker.
type PickerItem struct {
	Slug  string
	Title string
	Date  string
	Tags  []string
}

// PickerItems converts posts into picker entries.
func PickerItems(posts []blog.Post) []PickerItem {
	items := make([]PickerItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, PickerItem{Slug: p.Slug, Title: p.Title, Date: p.Date, Tags: p.Tags})
	}
	return items
}

// SlugItems builds bare picker entries from "cat <slug>" commands, for when
// only the current listing is known.
func SlugItems(commands []string) []PickerItem {
	var items []PickerItem
	for _, c := range commands {
		slug, ok := strings.CutPrefix(c, "cat ")
		if !ok || slug == "" {
			continue
		}
		items = append(items, PickerItem{Slug: slug})
	}
	return items
}

// PickerChoice is emitted when the user selects a post.
type PickerChoice struct {
	Slug string
}

// Command is the input line that opens the chosen post.
func (c PickerChoice) Command() string {
	return "cat " + c.Slug
}

// PickerCancel is emitted when the user presses Esc.
type PickerCancel struct{}

// PickerModel renders a vertical list of posts with arrow-key navigation.
type PickerModel struct {
	items    []PickerItem
	cursor   int
	active   bool
	width    int
	offset   int // scroll offset for long lists
	pageSize int // visible items per page
}

// NewPicker returns a zero-value PickerModel.
func NewPicker() PickerModel {
	return PickerModel{pageSize: 12}
}

// SetItems populates the picker and activates it.
func (m *PickerModel) SetItems(items []PickerItem) {
	m.items = items
	m.cursor = 0
	m.offset = 0
	m.active = true
}

// Clear deactivates the picker.
func (m *PickerModel) Clear() {
	m.active = false
	m.items = nil
	m.cursor = 0
	m.offset = 0
}

// IsActive reports whether the picker is currently visible.
func (m PickerModel) IsActive() bool {
	return m.active
}

// Cursor returns the index of the highlighted item.
func (m PickerModel) Cursor() int {
	return m.cursor
}

// SetWidth constrains the picker to the terminal width.
func (m *PickerModel) SetWidth(w int) {
	m.width = w
}

// Update handles keyboard input when the picker is active.
func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.active {
		return m, nil
	}
	if keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyCtrlC {
		m.Clear()
		return m, func() tea.Msg { return PickerCancel{} }
	}
	if len(m.items) == 0 {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		} else {
			// Wrap to bottom
			m.cursor = len(m.items) - 1
			if m.cursor >= m.offset+m.pageSize {
				m.offset = m.cursor - m.pageSize + 1
			}
		}

	case tea.KeyDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.pageSize {
				m.offset = m.cursor - m.pageSize + 1
			}
		} else {
			// Wrap to top
			m.cursor = 0
			m.offset = 0
		}

	case tea.KeyEnter:
		slug := m.items[m.cursor].Slug
		m.Clear()
		return m, func() tea.Msg { return PickerChoice{Slug: slug} }
	}

	return m, nil
}

// View renders the picker panel.
func (m PickerModel) View() string {
	if !m.active {
		return ""
	}

	var sb strings.Builder
	header := lipgloss.NewStyle().Foreground(style.Primary).Bold(true).Render("◈ Posts")
	hint := style.Hint.Render("  ↑↓ navigate · Enter read · Esc cancel")
	sb.WriteString(header + hint + "\n\n")

	if len(m.items) == 0 {
		sb.WriteString(style.Hint.Render("  No posts loaded yet. Run 'ls' first.") + "\n")
	}

	end := m.offset + m.pageSize
	if end > len(m.items) {
		end = len(m.items)
	}
	if m.offset > 0 {
		sb.WriteString(style.Hint.Render("  ↑ more above") + "\n")
	}
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.renderItem(m.items[i], i == m.cursor))
		sb.WriteString("\n")
	}
	if end < len(m.items) {
		sb.WriteString(style.Hint.Render("  ↓ more below") + "\n")
	}
	sb.WriteString(style.Hint.Render(fmt.Sprintf("\n  %d post(s)", len(m.items))))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Border).
		Padding(0, 1)
	if m.width > 0 {
		box = box.Width(m.width - 2)
	}
	return box.Render(sb.String())
}

// renderItem renders a single post line: slug, title, date and tags.
func (m PickerModel) renderItem(item PickerItem, isCursor bool) string {
	cursor := "    "
	slug := style.Unselected.Render(pad(item.Slug, colSlug))
	if isCursor {
		cursor = style.Selected.Render("  > ")
		slug = style.Selected.Render(pad(item.Slug, colSlug))
	}
	line := cursor + slug
	if item.Title != "" {
		line += " " + pad(item.Title, colTitle)
	}
	if item.Date != "" {
		line += " " + style.PostDetails.Render(item.Date)
	}
	if len(item.Tags) > 0 {
		line += " " + style.TagText.Render(blog.Post{Tags: item.Tags}.HashTags())
	}
	if m.width > 8 {
		line = ansi.Truncate(line, m.width-6, "…")
	}
	return line
}
