package ui

import "github.com/charmbracelet/lipgloss"

// Phosphor palette, matched to the scope shades in the display package.
var (
	ColorPhosphor  = lipgloss.Color("#00FF41")
	ColorTrace     = lipgloss.Color("#00CC33")
	ColorAfterglow = lipgloss.Color("#008F11")
	ColorFaint     = lipgloss.Color("#004A0A")
	ColorBezel     = lipgloss.Color("#00AA22")
	ColorPanel     = lipgloss.Color("#002200")
	ColorHold      = lipgloss.Color("#FFAA00")
	ColorFault     = lipgloss.Color("#FF3300")
)

var (
	StyleMenuBar   = bar().Foreground(ColorPhosphor).Bold(true)
	StyleStatusBar = bar().Foreground(ColorTrace)

	StyleMenuKey   = lipgloss.NewStyle().Foreground(ColorPhosphor).Bold(true)
	StyleMenuLabel = lipgloss.NewStyle().Foreground(ColorTrace)

	StyleStatusScanning = lipgloss.NewStyle().Foreground(ColorPhosphor).Bold(true)
	StyleStatusPaused   = lipgloss.NewStyle().Foreground(ColorHold).Bold(true)
	StyleStatusFault    = lipgloss.NewStyle().Foreground(ColorFault).Bold(true)

	StylePanelBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBezel)
	StylePanelTitle  = lipgloss.NewStyle().Foreground(ColorPhosphor).Bold(true).Padding(0, 1)
	StyleSeparator   = lipgloss.NewStyle().Foreground(ColorAfterglow)

	// Trail entries fade with age like the markers on the scope.
	StyleEntryNew = lipgloss.NewStyle().Foreground(ColorPhosphor).Bold(true)
	StyleEntry    = lipgloss.NewStyle().Foreground(ColorTrace)
	StyleEntryOld = lipgloss.NewStyle().Foreground(ColorAfterglow)

	StyleHelp = lipgloss.NewStyle().Foreground(ColorFaint)
)

func bar() lipgloss.Style {
	return lipgloss.NewStyle().Background(ColorPanel).Padding(0, 1)
}
