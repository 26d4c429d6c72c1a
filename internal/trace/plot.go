package trace

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoPoints = errors.New("trace has no valid points")

// PlotPNG writes a top-down scatter of every valid record within maxRange
// millimeters. Points beyond it are drawn in a second, dimmer series.
func PlotPNG(records []Record, maxRange int, path string) error {
	kept := make(plotter.XYs, 0, len(records))
	far := make(plotter.XYs, 0)
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		if r.DistMM <= maxRange {
			kept = append(kept, plotter.XY{X: r.X, Y: r.Y})
		} else {
			far = append(far, plotter.XY{X: r.X, Y: r.Y})
		}
	}
	if len(kept)+len(far) == 0 {
		return ErrNoPoints
	}

	p := plot.New()
	p.Title.Text = "Polar scan"
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"
	p.Add(plotter.NewGrid())

	if len(kept) > 0 {
		s, err := plotter.NewScatter(kept)
		if err != nil {
			return fmt.Errorf("scatter: %w", err)
		}
		s.GlyphStyle.Color = color.RGBA{R: 0x00, G: 0x8F, B: 0x11, A: 0xFF}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("<= %d mm", maxRange), s)
	}

	if len(far) > 0 {
		s, err := plotter.NewScatter(far)
		if err != nil {
			return fmt.Errorf("scatter: %w", err)
		}
		s.GlyphStyle.Color = color.RGBA{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF}
		s.GlyphStyle.Radius = vg.Points(1)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("> %d mm", maxRange), s)
	}

	origin, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: 0}})
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	origin.GlyphStyle.Color = color.Black
	origin.GlyphStyle.Radius = vg.Points(3)
	p.Add(origin)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
