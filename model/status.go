package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/dotoki2k/terminal-blog/style"
)

// StatusModel renders the bottom status line. It has two visual states:
//
//   - active (a command is running): handled by ActivityModel, so only the
//     queue depth is shown here
//   - idle: identity · last command · duration · cached post count
type StatusModel struct {
	user        string
	lastCommand string
	elapsed     time.Duration
	cached      int
	hasCache    bool
	pending     int
	active      bool
}

// NewStatus returns a zero-value StatusModel.
func NewStatus() StatusModel {
	return StatusModel{user: "guest"}
}

// SetUser updates the identity shown.
func (m *StatusModel) SetUser(user string) {
	m.user = user
}

// SetLast records the last finished command and how long it took.
func (m *StatusModel) SetLast(command string, elapsed time.Duration) {
	m.lastCommand = command
	m.elapsed = elapsed
}

// SetCache records the size of the post snapshot. ok is false when nothing
// is cached.
func (m *StatusModel) SetCache(n int, ok bool) {
	m.cached = n
	m.hasCache = ok
}

// SetPending updates the number of queued submissions.
func (m *StatusModel) SetPending(n int) {
	m.pending = n
}

// SetActive marks the model as processing (true) or idle (false).
func (m *StatusModel) SetActive(active bool) {
	m.active = active
}

// View renders the status area.
func (m StatusModel) View() string {
	if m.active {
		if m.pending > 0 {
			return style.Hint.Render(fmt.Sprintf(" %d queued", m.pending))
		}
		return ""
	}

	parts := []string{style.StatusUser.Render(m.user)}
	if m.lastCommand != "" {
		parts = append(parts, fmt.Sprintf("%s %s", m.lastCommand, formatElapsed(m.elapsed)))
	}
	if m.hasCache {
		parts = append(parts, fmt.Sprintf("%d post(s) cached", m.cached))
	}
	return style.StatusBar.Render(strings.Join(parts, " · "))
}

// formatElapsed renders a short duration: 320ms, 1.4s, 2m05s.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
