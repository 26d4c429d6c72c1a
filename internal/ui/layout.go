package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the bars around the scope. The trail list and the
// bearing panel share the column to the scope's right.
func ComposeLayout(menuBar, scope, trail, bearing, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		menuBar,
		lipgloss.JoinHorizontal(lipgloss.Top, scope, lipgloss.JoinVertical(lipgloss.Left, trail, bearing)),
		statusBar,
	)
}
