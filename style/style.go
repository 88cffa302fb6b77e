package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors of the active theme. SetTheme rewrites them.
var (
	Primary   lipgloss.TerminalColor = lipgloss.Color("#22C55E") // green-500
	Secondary lipgloss.TerminalColor = lipgloss.Color("#06B6D4") // cyan-500
	Success   lipgloss.TerminalColor = lipgloss.Color("#22C55E") // green-500
	Warning   lipgloss.TerminalColor = lipgloss.Color("#F59E0B") // amber-500
	Error     lipgloss.TerminalColor = lipgloss.Color("#EF4444") // red-500
	Muted     lipgloss.TerminalColor = lipgloss.Color("#6B7280") // gray-500
	Dim       lipgloss.TerminalColor = lipgloss.Color("#374151") // gray-700
	Border    lipgloss.TerminalColor = lipgloss.Color("#4B5563") // gray-600
	Link      lipgloss.TerminalColor = lipgloss.Color("#60A5FA") // blue-400
	Tag       lipgloss.TerminalColor = lipgloss.Color("#C084FC") // purple-400
)

// Base styles.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style

	// Header
	HeaderTitle  lipgloss.Style
	HeaderDetail lipgloss.Style

	// Prompt and echoed command line
	Prompt      lipgloss.Style
	CommandText lipgloss.Style

	// Console output
	Heading     lipgloss.Style
	PostDetails lipgloss.Style
	TagText     lipgloss.Style
	LinkText    lipgloss.Style
	TableHeader lipgloss.Style
	HelpCommand lipgloss.Style

	// Activity
	SpinnerStyle lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusUser lipgloss.Style

	// Overlays (palette, picker)
	OverlayBorder lipgloss.Style
	Selected      lipgloss.Style
	Unselected    lipgloss.Style

	// Hint text (ctrl+p, ctrl+o)
	Hint lipgloss.Style
)

func init() {
	SetTheme(CurrentThemeName)
}

// SetTheme activates a built-in theme by name. Unknown names fall back to
// "dark". It returns the name actually applied.
func SetTheme(name string) string {
	t, ok := Themes[name]
	if !ok {
		t = darkTheme
	}
	CurrentThemeName = t.Name

	Primary, Secondary, Success = t.Primary, t.Secondary, t.Success
	Warning, Error = t.Warning, t.Error
	Muted, Dim, Border = t.Muted, t.Dim, t.Border
	Link, Tag = t.Link, t.Tag

	rebuild()
	return t.Name
}

func rebuild() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	HeaderTitle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	HeaderDetail = lipgloss.NewStyle().
		Foreground(Muted)

	Prompt = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	CommandText = lipgloss.NewStyle().
		Foreground(Secondary)

	Heading = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	PostDetails = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)
	TagText = lipgloss.NewStyle().
		Foreground(Tag)
	LinkText = lipgloss.NewStyle().
		Foreground(Link).
		Underline(true)
	TableHeader = lipgloss.NewStyle().
		Foreground(Muted).
		Bold(true)
	HelpCommand = lipgloss.NewStyle().
		Foreground(Secondary)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(Primary)

	StatusBar = lipgloss.NewStyle().
		Foreground(Muted).
		PaddingLeft(1)
	StatusUser = lipgloss.NewStyle().
		Foreground(Secondary)

	OverlayBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	Unselected = lipgloss.NewStyle().
		Foreground(Muted)

	Hint = lipgloss.NewStyle().
		Foreground(Dim)
}

// Rule renders a horizontal divider of the given width.
func Rule(width int) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", width))
}
