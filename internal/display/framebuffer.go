package display

import (
	"math"

	"polar-scanner.klederson.com/internal/config"
)

const maxLevel = config.IntensityLevels - 1

// Text is a string overlay anchored at its top-left pixel.
type Text struct {
	X, Y int
	S    string
}

// Frame is one presented image: an intensity level per pixel plus text.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8 // row-major, 0 = off, maxLevel = full
	Text   []Text
}

// At returns the level of a pixel, 0 outside the frame.
func (f Frame) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Pix[y*f.Width+x]
}

// Lit counts pixels that are on.
func (f Frame) Lit() int {
	n := 0
	for _, p := range f.Pix {
		if p > 0 {
			n++
		}
	}
	return n
}

// Framebuffer is an in-memory Sink. Present hands a copy of the back buffer
// to the presenter callback, if any.
type Framebuffer struct {
	width      int
	height     int
	monochrome bool
	pix        []uint8
	text       []Text
	last       Frame
	present    func(Frame) error
}

// NewFramebuffer creates a width×height buffer. Monochrome panels light any
// non-zero intensity at full level.
func NewFramebuffer(width, height int, monochrome bool, present func(Frame) error) *Framebuffer {
	return &Framebuffer{
		width:      width,
		height:     height,
		monochrome: monochrome,
		pix:        make([]uint8, width*height),
		present:    present,
	}
}

func (fb *Framebuffer) Clear() {
	clear(fb.pix)
	fb.text = fb.text[:0]
}

func (fb *Framebuffer) set(x, y int, level uint8) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	i := y*fb.width + x
	if level > fb.pix[i] {
		fb.pix[i] = level
	}
}

// DrawLine draws a full-intensity Bresenham line.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		fb.set(x0, y0, maxLevel)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle fills every pixel within r of (x, y). Radius 0 is one pixel.
func (fb *Framebuffer) FillCircle(x, y, r int, intensity float64) {
	level := fb.level(intensity)
	if level == 0 || r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				fb.set(x+dx, y+dy, level)
			}
		}
	}
}

func (fb *Framebuffer) level(intensity float64) uint8 {
	if !(intensity > 0) {
		return 0
	}
	if fb.monochrome || intensity >= 1 {
		return maxLevel
	}
	l := uint8(math.Round(intensity * maxLevel))
	if l == 0 {
		l = 1
	}
	return l
}

func (fb *Framebuffer) DrawText(x, y int, s string) {
	fb.text = append(fb.text, Text{X: x, Y: y, S: s})
}

// Present publishes the back buffer.
func (fb *Framebuffer) Present() error {
	f := Frame{
		Width:  fb.width,
		Height: fb.height,
		Pix:    append([]uint8(nil), fb.pix...),
		Text:   append([]Text(nil), fb.text...),
	}
	fb.last = f
	if fb.present == nil {
		return nil
	}
	return fb.present(f)
}

// Last returns the most recently presented frame.
func (fb *Framebuffer) Last() Frame {
	return fb.last
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
