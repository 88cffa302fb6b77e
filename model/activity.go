package model

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dotoki2k/terminal-blog/style"
)

// ActivityModel renders a spinner and elapsed timer while a command waits
// on the content store.
type ActivityModel struct {
	sp        spinner.Model
	active    bool
	command   string
	startTime time.Time
}

// NewActivity constructs an ActivityModel with a Dot spinner.
func NewActivity() ActivityModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.SpinnerStyle
	return ActivityModel{sp: sp}
}

// Start activates the display for command and resets the elapsed timer.
func (m *ActivityModel) Start(command string) tea.Cmd {
	m.active = true
	m.command = command
	m.startTime = time.Now()
	return m.sp.Tick
}

// Stop hides the display and returns how long the command ran.
func (m *ActivityModel) Stop() time.Duration {
	m.active = false
	if m.startTime.IsZero() {
		return 0
	}
	return time.Since(m.startTime)
}

// IsActive reports whether a command is running.
func (m ActivityModel) IsActive() bool { return m.active }

// Update advances the spinner while active.
func (m ActivityModel) Update(teaMsg tea.Msg) (ActivityModel, tea.Cmd) {
	if tick, ok := teaMsg.(spinner.TickMsg); ok && m.active {
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(tick)
		return m, cmd
	}
	return m, nil
}

// View renders "⣾ ls · 1.2s" while active.
func (m ActivityModel) View() string {
	if !m.active {
		return ""
	}
	elapsed := style.Faint.Render(fmt.Sprintf(" · %s", formatElapsed(time.Since(m.startTime))))
	return m.sp.View() + " " + style.CommandText.Render(m.command) + elapsed
}
