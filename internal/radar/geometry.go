package radar

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/scan"
)

var ErrInvalidViewport = errors.New("viewport must have positive width and height")

// Viewport maps real-world millimeter offsets onto the pixel grid. Origin is
// the pixel the scanner sits on; physical +Y points up the screen.
type Viewport struct {
	Width  int
	Height int
	Origin image.Point
	Scale  float64 // mm per pixel
}

// NewViewport builds a width×height viewport centred on the scanner.
func NewViewport(width, height int, scale float64) (Viewport, error) {
	if width <= 0 || height <= 0 {
		return Viewport{}, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return Viewport{}, fmt.Errorf("%w: got %v", config.ErrInvalidScale, scale)
	}
	return Viewport{
		Width:  width,
		Height: height,
		Origin: image.Pt(width/2, height/2),
		Scale:  scale,
	}, nil
}

// DefaultViewport is the 128×64 panel at 20 mm/px.
func DefaultViewport() Viewport {
	vp, _ := NewViewport(config.ViewportWidth, config.ViewportHeight, config.ScaleMMPerPx)
	return vp
}

// Contains reports whether p lies on the pixel grid.
func (v Viewport) Contains(p image.Point) bool {
	return p.In(image.Rect(0, 0, v.Width, v.Height))
}

// Project maps a sample to its pixel. It returns false for invalid samples
// and for points that land off the grid; nothing is clamped.
func (v Viewport) Project(s scan.Sample) (image.Point, bool) {
	if !s.Valid() {
		return image.Point{}, false
	}
	p := image.Pt(
		v.Origin.X+int(math.Round(s.Pos.X/v.Scale)),
		v.Origin.Y-int(math.Round(s.Pos.Y/v.Scale)),
	)
	if !v.Contains(p) {
		return image.Point{}, false
	}
	return p, true
}

// Unproject returns the millimeter offset at the centre of pixel p.
func (v Viewport) Unproject(p image.Point) r2.Vec {
	d := r2.Vec{X: float64(p.X - v.Origin.X), Y: float64(v.Origin.Y - p.Y)}
	return r2.Scale(v.Scale, d)
}

// MarkerRadius grows with age: the oldest entry gets MarkerMinRadius and the
// newest MarkerMaxRadius.
func MarkerRadius(age, count int) int {
	span := config.MarkerMaxRadius - config.MarkerMinRadius
	if count <= 1 {
		return config.MarkerMaxRadius
	}
	return config.MarkerMinRadius + span*clampAge(age, count)/(count-1)
}

// MarkerIntensity fades from minIntensity for the oldest entry to 1 for the
// newest.
func MarkerIntensity(age, count int) float64 {
	if count <= 1 {
		return 1
	}
	return minIntensity + (1-minIntensity)*float64(clampAge(age, count))/float64(count-1)
}

const minIntensity = 0.25

func clampAge(age, count int) int {
	if age < 0 {
		return 0
	}
	if age > count-1 {
		return count - 1
	}
	return age
}
