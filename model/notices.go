package model

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotoki2k/terminal-blog/style"
)

// NoticeKind selects the icon and color of a notice.
type NoticeKind int

const (
	NoticeOK NoticeKind = iota
	NoticeFailed
)

const (
	noticeLimit    = 3
	noticeLifetime = 4 * time.Second
)

type notice struct {
	text  string
	kind  NoticeKind
	until time.Time
}

// NoticesModel holds short-lived messages shown above the footer, outside the
// console log. Browser launch results end up here.
type NoticesModel struct {
	items []notice
	now   func() time.Time
}

// NewNotices returns an empty NoticesModel on the wall clock.
func NewNotices() NoticesModel {
	return NoticesModel{now: time.Now}
}

// Push adds a notice, dropping the oldest beyond noticeLimit.
func (m *NoticesModel) Push(text string, kind NoticeKind) {
	n := notice{text: text, kind: kind, until: m.timeNow().Add(noticeLifetime)}
	m.items = append(m.items, n)
	if over := len(m.items) - noticeLimit; over > 0 {
		m.items = append([]notice(nil), m.items[over:]...)
	}
}

// Expire drops notices whose lifetime has passed.
func (m *NoticesModel) Expire() {
	now := m.timeNow()
	kept := m.items[:0]
	for _, n := range m.items {
		if n.until.After(now) {
			kept = append(kept, n)
		}
	}
	m.items = kept
}

// Len is the number of live notices.
func (m NoticesModel) Len() int { return len(m.items) }

func (m NoticesModel) timeNow() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

// View stacks the notices flush right within width.
func (m NoticesModel) View(width int) string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, n := range m.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		icon, fg := "✓", style.Success
		if n.kind == NoticeFailed {
			icon, fg = "✘", style.Error
		}
		line := lipgloss.NewStyle().Foreground(fg).Render(" " + icon + " " + n.text + " ")
		b.WriteString(lipgloss.PlaceHorizontal(max(width, lipgloss.Width(line)), lipgloss.Right, line))
	}
	return b.String()
}
