package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"polar-scanner.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, traceTarget string, running bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"S", "can"},
		{"P", "ause"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusPaused.Render("PAUSED")
	if running {
		status = StyleStatusScanning.Render("SCANNING")
	}

	if traceTarget == "" {
		traceTarget = "off"
	}
	traceInfo := StyleMenuLabel.Render(fmt.Sprintf("Trace: %s", traceTarget))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + traceInfo + " "

	gap := max(0, width-2-lipgloss.Width(left)-lipgloss.Width(right))
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
