package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"polar-scanner.klederson.com/internal/scan"
)

// RenderHistoryList renders the trail entries newest first, one per line.
func RenderHistoryList(history *scan.History, width, height int) string {
	innerW := max(width-4, 10)
	innerH := max(height-2, 3)

	title := StylePanelTitle.Render(fmt.Sprintf("TRAIL [%d/%d]", history.Len(), history.Cap()))
	sep := StyleSeparator.Render(strings.Repeat("-", innerW))
	lines := []string{title, sep}

	if history.Len() == 0 {
		lines = append(lines, "", StyleHelp.Render(" No points yet..."), StyleHelp.Render(" Waiting for a target"))
	} else {
		samples := history.Samples()
		newest := len(samples) - 1
		for i := newest; i >= 0; i-- {
			s := samples[i]
			entry := fmt.Sprintf(" %2d %7.0f %7.0f %6.1fs", newest-i, s.X(), s.Y(), float64(s.CapturedAt)/1000)
			if len(entry) > innerW {
				entry = entry[:innerW]
			}
			lines = append(lines, entryStyle(newest-i, len(samples)).Render(entry))
		}
	}

	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	return StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
}

func entryStyle(back, count int) lipgloss.Style {
	switch {
	case back == 0:
		return StyleEntryNew
	case back < count/2:
		return StyleEntry
	default:
		return StyleEntryOld
	}
}
