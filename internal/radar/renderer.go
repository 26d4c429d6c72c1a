package radar

import (
	"fmt"
	"image"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/display"
	"polar-scanner.klederson.com/internal/scan"
)

const (
	hudX       = 0
	hudY       = 0
	lineHeight = 8
)

// Renderer draws the scan trail onto a display sink.
type Renderer struct {
	sink display.Sink
	vp   Viewport
}

func NewRenderer(sink display.Sink, vp Viewport) *Renderer {
	return &Renderer{sink: sink, vp: vp}
}

// Viewport returns the projection used for every frame.
func (r *Renderer) Viewport() Viewport {
	return r.vp
}

// RenderFrame redraws the whole frame: crosshair, history trail, the latest
// unretained point and the HUD, then presents it.
func (r *Renderer) RenderFrame(history *scan.History, latest scan.Result) error {
	r.sink.Clear()
	r.drawCrosshair()

	count := history.Len()
	var prev image.Point
	prevOK := false
	for age, s := range history.All() {
		p, ok := r.vp.Project(s)
		if ok && prevOK {
			r.sink.DrawLine(prev.X, prev.Y, p.X, p.Y)
		}
		if ok {
			r.sink.FillCircle(p.X, p.Y, MarkerRadius(age, count), MarkerIntensity(age, count))
		}
		prev, prevOK = p, ok
	}

	// Readings past the accept range never enter history but are still
	// shown for the frame they were taken in.
	if latest.Sample.Valid() && !latest.Accepted {
		if p, ok := r.vp.Project(latest.Sample); ok {
			r.sink.FillCircle(p.X, p.Y, config.MarkerMinRadius, minIntensity)
		}
	}

	r.sink.DrawText(hudX, hudY, HUD(latest))
	return r.sink.Present()
}

func (r *Renderer) drawCrosshair() {
	o := r.vp.Origin
	r.sink.DrawLine(0, o.Y, r.vp.Width-1, o.Y)
	r.sink.DrawLine(o.X, 0, o.X, r.vp.Height-1)
}

// RenderSplash shows the boot screen.
func (r *Renderer) RenderSplash() error {
	r.sink.Clear()
	r.sink.DrawText(0, 0, config.SplashText)
	r.sink.DrawText(0, lineHeight, "QMC5883L+VL53L0X")
	r.sink.DrawText(0, 2*lineHeight, fmt.Sprintf("%s v%s", config.AppName, config.AppVersion))
	return r.sink.Present()
}

// HUD formats the overlay line for a cycle result.
func HUD(res scan.Result) string {
	mm, ok := res.Range.MM()
	if !ok {
		return fmt.Sprintf("ang: %3.0f deg  d: no target", res.AngleDeg)
	}
	return fmt.Sprintf("ang: %3.0f deg  d: %4d mm", res.AngleDeg, mm)
}
