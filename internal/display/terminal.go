package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBright = lipgloss.Color("#00FF41")
	colorText   = lipgloss.Color("#00CC33")

	styleText = lipgloss.NewStyle().Foreground(colorText).Bold(true)
)

// shades maps intensity levels to Matrix greens, dimmest first.
var shades = []lipgloss.Color{
	"#003300", "#004A0A", "#005511", "#008F11", "#00AA22", "#00CC33", "#00FF41",
}

func shade(level uint8) lipgloss.Color {
	if level >= maxLevel {
		return colorBright
	}
	return shades[int(level)*(len(shades)-1)/maxLevel]
}

// Terminal turns presented frames into half-block text, two pixel rows per
// terminal line. It is used as a Framebuffer presenter.
type Terminal struct {
	frame Frame
}

func NewTerminal() *Terminal {
	return &Terminal{}
}

// Show records f as the frame to draw on the next View.
func (t *Terminal) Show(f Frame) error {
	t.frame = f
	return nil
}

// Frame returns the last shown frame.
func (t *Terminal) Frame() Frame {
	return t.frame
}

// View renders the last shown frame.
func (t *Terminal) View() string {
	return RenderFrame(t.frame)
}

// RenderFrame renders f as lipgloss-styled half blocks with text overlays.
func RenderFrame(f Frame) string {
	if f.Width == 0 || f.Height == 0 {
		return ""
	}
	rows := (f.Height + 1) / 2

	// Overlay lookup: key = row*width+col
	overlay := make(map[int]byte)
	for _, txt := range f.Text {
		row := txt.Y / 2
		if row < 0 || row >= rows {
			continue
		}
		for i := 0; i < len(txt.S); i++ {
			col := txt.X + i
			if col < 0 || col >= f.Width {
				continue
			}
			overlay[row*f.Width+col] = txt.S[i]
		}
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < f.Width; col++ {
			if ch, ok := overlay[row*f.Width+col]; ok {
				sb.WriteString(styleText.Render(string(ch)))
				continue
			}
			sb.WriteString(renderCell(f.At(col, 2*row), f.At(col, 2*row+1)))
		}
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func renderCell(top, bottom uint8) string {
	switch {
	case top == 0 && bottom == 0:
		return " "
	case bottom == 0:
		return lipgloss.NewStyle().Foreground(shade(top)).Render("▀")
	case top == 0:
		return lipgloss.NewStyle().Foreground(shade(bottom)).Render("▄")
	case top == bottom:
		return lipgloss.NewStyle().Foreground(shade(top)).Render("█")
	default:
		return lipgloss.NewStyle().Foreground(shade(top)).Background(shade(bottom)).Render("▀")
	}
}

// Plain renders f without styling, '#' for lit pixels, one text line per
// pixel row. Useful for logs and golden comparisons.
func Plain(f Frame) string {
	var sb strings.Builder
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) > 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y < f.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
