package style

import "github.com/charmbracelet/lipgloss"

// Theme defines a complete color palette for the TUI.
type Theme struct {
	Name                                        string
	Primary, Secondary, Success, Warning, Error lipgloss.TerminalColor
	Muted, Dim, Border                          lipgloss.TerminalColor
	Link, Tag                                   lipgloss.TerminalColor
}

// Built-in themes.
var (
	darkTheme = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#22C55E"), // green-500
		Secondary: lipgloss.Color("#06B6D4"), // cyan-500
		Success:   lipgloss.Color("#22C55E"), // green-500
		Warning:   lipgloss.Color("#F59E0B"), // amber-500
		Error:     lipgloss.Color("#EF4444"), // red-500
		Muted:     lipgloss.Color("#6B7280"), // gray-500
		Dim:       lipgloss.Color("#374151"), // gray-700
		Border:    lipgloss.Color("#4B5563"), // gray-600
		Link:      lipgloss.Color("#60A5FA"), // blue-400
		Tag:       lipgloss.Color("#C084FC"), // purple-400
	}

	lightTheme = Theme{
		Name:      "light",
		Primary:   lipgloss.Color("#15803D"), // green-700
		Secondary: lipgloss.Color("#0891B2"), // cyan-600
		Success:   lipgloss.Color("#16A34A"), // green-600
		Warning:   lipgloss.Color("#D97706"), // amber-600
		Error:     lipgloss.Color("#DC2626"), // red-600
		Muted:     lipgloss.Color("#6B7280"), // gray-500
		Dim:       lipgloss.Color("#D1D5DB"), // gray-300
		Border:    lipgloss.Color("#9CA3AF"), // gray-400
		Link:      lipgloss.Color("#2563EB"), // blue-600
		Tag:       lipgloss.Color("#9333EA"), // purple-600
	}

	catppuccinTheme = Theme{
		Name:      "catppuccin",
		Primary:   lipgloss.Color("#A6E3A1"), // green
		Secondary: lipgloss.Color("#89DCEB"), // sky
		Success:   lipgloss.Color("#A6E3A1"), // green
		Warning:   lipgloss.Color("#F9E2AF"), // yellow
		Error:     lipgloss.Color("#F38BA8"), // red
		Muted:     lipgloss.Color("#6C7086"), // overlay0
		Dim:       lipgloss.Color("#45475A"), // surface1
		Border:    lipgloss.Color("#585B70"), // surface2
		Link:      lipgloss.Color("#89B4FA"), // blue
		Tag:       lipgloss.Color("#CBA6F7"), // mauve
	}

	// amber is the classic phosphor terminal look.
	amberTheme = Theme{
		Name:      "amber",
		Primary:   lipgloss.Color("#FFB000"),
		Secondary: lipgloss.Color("#FFCC00"),
		Success:   lipgloss.Color("#FFB000"),
		Warning:   lipgloss.Color("#FF8C00"),
		Error:     lipgloss.Color("#FF5F00"),
		Muted:     lipgloss.Color("#B37B00"),
		Dim:       lipgloss.Color("#664600"),
		Border:    lipgloss.Color("#805800"),
		Link:      lipgloss.Color("#FFD966"),
		Tag:       lipgloss.Color("#FFCC00"),
	}
)

// Themes maps theme names to their definitions.
var Themes = map[string]Theme{
	"dark":       darkTheme,
	"light":      lightTheme,
	"catppuccin": catppuccinTheme,
	"amber":      amberTheme,
}

// ThemeNames lists available themes in display order.
var ThemeNames = []string{"dark", "light", "catppuccin", "amber"}

// CurrentThemeName tracks the active theme name.
var CurrentThemeName = "dark"
