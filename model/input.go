package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dotoki2k/terminal-blog/style"
)

// InputModel is the command line with history navigation and command
// completion.
//
// History navigation:
//   - Up arrow: walk backwards through submitted lines
//   - Down arrow: walk forwards (towards the present)
//
// Completion:
//   - Tab cycles through command names matching the first word, then through
//     post slugs when the line starts with "cat "
//
// History lives only as long as the process.
type InputModel struct {
	ti         textinput.Model
	prompt     string
	history    []string
	historyIdx int // points one past the last entry when not navigating

	commands   []string // command names, e.g. ["about", "cat", "clear"]
	slugs      []string // known post slugs for "cat " completion
	tabIdx     int      // current completion cursor (-1 = none)
	tabMatches []string // current completion candidates
}

// NewInput returns a ready-to-use InputModel.
func NewInput() InputModel {
	ti := textinput.New()
	ti.Placeholder = "type 'help' to get started"
	ti.Prompt = ""
	ti.CharLimit = 1024

	return InputModel{
		ti:         ti,
		prompt:     "guest@blog:~$",
		historyIdx: 0,
		tabIdx:     -1,
	}
}

// SetPrompt changes the prompt shown before the input.
func (m *InputModel) SetPrompt(prompt string) {
	m.prompt = prompt
}

// Prompt returns the prompt shown before the input.
func (m InputModel) Prompt() string {
	return m.prompt
}

// SetCommands replaces the command names used for completion.
func (m *InputModel) SetCommands(cmds []string) {
	m.commands = cmds
}

// SetSlugs replaces the post slugs used to complete "cat ".
func (m *InputModel) SetSlugs(slugs []string) {
	m.slugs = slugs
}

// SetWidth constrains the text field.
func (m *InputModel) SetWidth(w int) {
	m.ti.Width = w - len(m.prompt) - 2
	if m.ti.Width < 10 {
		m.ti.Width = 10
	}
}

// SetValue replaces the buffer and moves the cursor to its end.
func (m *InputModel) SetValue(s string) {
	m.ti.SetValue(s)
	m.ti.CursorEnd()
	m.resetTab()
}

// Focus gives keyboard focus to the input.
func (m *InputModel) Focus() tea.Cmd {
	return m.ti.Focus()
}

// Blur removes keyboard focus from the input.
func (m *InputModel) Blur() {
	m.ti.Blur()
}

// Focused reports whether the input has keyboard focus.
func (m InputModel) Focused() bool {
	return m.ti.Focused()
}

// Value returns the current raw text in the input field.
func (m InputModel) Value() string {
	return m.ti.Value()
}

// Reset clears the input field and resets completion state.
func (m *InputModel) Reset() {
	m.historyIdx = len(m.history)
	m.ti.SetValue("")
	m.resetTab()
}

// Submit appends text to history and then clears the field. Blank lines and
// immediate repeats are not recorded.
func (m *InputModel) Submit(text string) {
	text = strings.TrimSpace(text)
	if text != "" && (len(m.history) == 0 || m.history[len(m.history)-1] != text) {
		m.history = append(m.history, text)
	}
	m.Reset()
}

// History returns the submitted lines, oldest first.
func (m InputModel) History() []string {
	return m.history
}

func (m *InputModel) resetTab() {
	m.tabIdx = -1
	m.tabMatches = nil
}

// Init satisfies tea.Model.
func (m InputModel) Init() tea.Cmd {
	return nil
}

// Update intercepts Up/Down for history and Tab for completion before
// delegating remaining keys to the underlying textinput.
func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyUp:
			return m.navigateHistory(-1), nil
		case tea.KeyDown:
			return m.navigateHistory(+1), nil
		case tea.KeyTab:
			return m.cycleComplete(), nil
		default:
			// Any other key resets tab state so the next Tab starts fresh.
			m.resetTab()
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// View renders the prompt followed by the textinput view.
func (m InputModel) View() string {
	return style.Prompt.Render(m.prompt) + " " + m.ti.View()
}

// navigateHistory moves the history cursor by delta (-1 = older, +1 = newer).
func (m InputModel) navigateHistory(delta int) InputModel {
	if len(m.history) == 0 {
		return m
	}

	next := m.historyIdx + delta
	switch {
	case next < 0:
		next = 0
	case next > len(m.history):
		next = len(m.history)
	}
	m.historyIdx = next

	if next == len(m.history) {
		// Moved past the newest entry: restore blank field.
		m.ti.SetValue("")
	} else {
		m.ti.SetValue(m.history[next])
		m.ti.CursorEnd()
	}
	return m
}

// cycleComplete advances through completion candidates.
func (m InputModel) cycleComplete() InputModel {
	if m.tabIdx == -1 || m.tabMatches == nil {
		m.tabMatches = m.candidates(m.ti.Value())
		if len(m.tabMatches) == 0 {
			return m
		}
		m.tabIdx = 0
	} else {
		m.tabIdx = (m.tabIdx + 1) % len(m.tabMatches)
	}

	m.ti.SetValue(m.tabMatches[m.tabIdx])
	m.ti.CursorEnd()
	return m
}

func (m InputModel) candidates(current string) []string {
	lower := strings.ToLower(current)
	if strings.HasPrefix(lower, "cat ") {
		prefix := strings.TrimLeft(current[len("cat "):], " ")
		var out []string
		for _, s := range matchPrefix(m.slugs, prefix) {
			out = append(out, "cat "+s)
		}
		return out
	}
	if strings.ContainsRune(current, ' ') {
		return nil
	}
	return matchPrefix(m.commands, lower)
}

// matchPrefix returns all candidates that have prefix as a prefix.
func matchPrefix(candidates []string, prefix string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
