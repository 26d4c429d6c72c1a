// Package display holds the pixel sinks the radar renderer draws into.
//
// Coordinates are integer pixels with the origin at the top-left corner and
// Y increasing downward. Drawing outside the grid is clipped silently.
package display

// Sink is a small pixel display: primitive draw calls into a back buffer
// followed by Present to flush a complete frame.
type Sink interface {
	Clear()
	DrawLine(x0, y0, x1, y1 int)
	FillCircle(x, y, r int, intensity float64)
	DrawText(x, y int, s string)
	Present() error
}

// Nop discards every draw call. It stands in for a display that did not
// answer at start-up.
type Nop struct{}

func (Nop) Clear()                            {}
func (Nop) DrawLine(x0, y0, x1, y1 int)       {}
func (Nop) FillCircle(x, y, r int, i float64) {}
func (Nop) DrawText(x, y int, s string)       {}
func (Nop) Present() error                    { return nil }
