package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"polar-scanner.klederson.com/internal/scan"
)

// RenderBearingPanel shows the latest corrected heading on a compass dial,
// with the range as a label and the trail distances as a sparkline.
func RenderBearingPanel(res scan.Result, history *scan.History, maxRange, width, height int) string {
	innerW := max(width-4, 20)
	innerH := max(height-2, 8)

	lines := []string{
		StylePanelTitle.Render("BEARING"),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}

	dialH := max(innerH-5, 5)
	dialW := min(innerW, dialH*3)
	pad := strings.Repeat(" ", max(0, (innerW-dialW)/2))
	if dial := RenderCompass(dialW, dialH, res, maxRange); dial != "" {
		for _, l := range strings.Split(dial, "\n") {
			lines = append(lines, pad+l)
		}
	}

	label := fmt.Sprintf("%.0fdeg %s  no target", res.AngleDeg, compassPoint(res.AngleDeg))
	if mm, ok := res.Range.MM(); ok {
		label = fmt.Sprintf("%.0fdeg %s  %dmm", res.AngleDeg, compassPoint(res.AngleDeg), mm)
	}
	lines = append(lines, center(StyleEntryNew.Render(label), innerW))

	var dists []float64
	for _, s := range history.All() {
		dists = append(dists, r2.Norm(s.Pos))
	}
	if spark := renderSparkline(dists, innerW-2); spark != "" {
		lines = append(lines, "", " "+StyleEntry.Render(spark))
	}

	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	return StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
}

// RenderCompass draws a north-up dial with an arrow toward the result's
// bearing. The arrow grows with distance up to maxRange; a cycle without a
// target draws no arrow.
func RenderCompass(width, height int, res scan.Result, maxRange int) string {
	if width < 9 || height < 5 {
		return ""
	}

	grid := make([][]byte, height)
	isArrow := make([][]bool, height)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", width))
		isArrow[i] = make([]bool, width)
	}

	fcx := float64(width) / 2
	fcy := float64(height) / 2
	rx := max(fcx-2, 3) // columns
	ry := max(fcy-2, 2) // rows
	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))

	const ringSteps = 80
	for i := range ringSteps {
		a := float64(i) * 2 * math.Pi / ringSteps
		col := int(math.Round(fcx + rx*math.Sin(a)))
		row := int(math.Round(fcy - ry*math.Cos(a)))
		if inGrid(width, height, col, row) && grid[row][col] == ' ' {
			grid[row][col] = "-\\|/-\\|/"[sector8(a)]
		}
	}

	setGrid(grid, cx, cy-int(math.Round(ry))-1, 'N')
	setGrid(grid, cx, cy+int(math.Round(ry))+1, 'S')
	setGrid(grid, cx+int(math.Round(rx))+1, cy, 'E')
	setGrid(grid, cx-int(math.Round(rx))-1, cy, 'W')
	setGrid(grid, cx, cy, '+')

	mm, ok := res.Range.MM()
	if ok {
		a := res.AngleDeg * math.Pi / 180
		frac := 0.3 + 0.55*math.Min(float64(mm)/float64(max(maxRange, 1)), 1)
		sinA, cosA := math.Sin(a), math.Cos(a)

		steps := max(int(math.Max(rx, ry)*frac), 2)
		tipCol, tipRow := cx, cy
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps) * frac
			col := int(math.Round(fcx + t*rx*sinA))
			row := int(math.Round(fcy - t*ry*cosA))
			if (col == cx && row == cy) || !inGrid(width, height, col, row) {
				continue
			}
			grid[row][col] = "|\\-/|\\-/"[sector8(a)]
			isArrow[row][col] = true
			tipCol, tipRow = col, row
		}
		if tipCol != cx || tipRow != cy {
			grid[tipRow][tipCol] = "^/>\\v/<\\"[sector8(a)]
		}
	}

	arrowSty := lipgloss.NewStyle().Foreground(ColorPhosphor).Bold(true)
	if !res.Accepted {
		arrowSty = lipgloss.NewStyle().Foreground(ColorHold).Bold(true)
	}
	ringSty := lipgloss.NewStyle().Foreground(ColorFaint)
	markSty := lipgloss.NewStyle().Foreground(ColorPhosphor).Bold(true)

	var sb strings.Builder
	for row := range height {
		for col := range width {
			ch := grid[row][col]
			switch {
			case isArrow[row][col]:
				sb.WriteString(arrowSty.Render(string(ch)))
			case strings.IndexByte("NESW+", ch) >= 0:
				sb.WriteString(markSty.Render(string(ch)))
			case ch != ' ':
				sb.WriteString(ringSty.Render(string(ch)))
			default:
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// renderSparkline scales the last width values between their min and max.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	const chars = "_.-~^"
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := math.Max(hi-lo, 1)

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		sb.WriteByte(chars[min(max(idx, 0), len(chars)-1)])
	}
	return sb.String()
}

// sector8 buckets a radian angle into the eight compass sectors, 0 = north.
func sector8(a float64) int {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return int(math.Round(a/(math.Pi/4))) % 8
}

func compassPoint(deg float64) string {
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[sector8(deg*math.Pi/180)]
}

func inGrid(w, h, col, row int) bool {
	return col >= 0 && col < w && row >= 0 && row < h
}

func setGrid(grid [][]byte, col, row int, ch byte) {
	if row >= 0 && row < len(grid) && col >= 0 && col < len(grid[row]) {
		grid[row][col] = ch
	}
}

func center(s string, width int) string {
	return strings.Repeat(" ", max(0, (width-lipgloss.Width(s))/2)) + s
}
