package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"polar-scanner.klederson.com/internal/scan"
)

// Status is what the bottom bar reports about the scanner.
type Status struct {
	Running  bool
	Degraded bool // a sensor did not answer at start-up
	Latest   scan.Result
	Filled   int
	Capacity int
	Cycles   int
	Accepted int
	Scale    float64
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	var state string
	switch {
	case st.Degraded:
		state = StyleStatusFault.Render("[DEGRADED]")
	case st.Running:
		state = StyleStatusScanning.Render("[SCANNING]")
	default:
		state = StyleStatusPaused.Render("[PAUSED]")
	}

	dist := "no target"
	if mm, ok := st.Latest.Range.MM(); ok {
		dist = fmt.Sprintf("%dmm", mm)
	}

	info := fmt.Sprintf(" Angle: %.0fdeg  Dist: %s  Trail: %d/%d  Cycles: %d  Kept: %d  Scale: %.0fmm/px",
		st.Latest.AngleDeg, dist, st.Filled, st.Capacity, st.Cycles, st.Accepted, st.Scale)

	content := state + StyleStatusBar.Foreground(ColorTrace).Render(info)

	gap := max(0, width-2-lipgloss.Width(content))
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
