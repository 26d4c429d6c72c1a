package radar

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/scan"
)

func TestNewViewportValidation(t *testing.T) {
	_, err := NewViewport(128, 64, 0)
	require.ErrorIs(t, err, config.ErrInvalidScale)

	_, err = NewViewport(128, 64, -20)
	require.ErrorIs(t, err, config.ErrInvalidScale)

	_, err = NewViewport(128, 64, math.NaN())
	require.ErrorIs(t, err, config.ErrInvalidScale)

	_, err = NewViewport(0, 64, 20)
	require.ErrorIs(t, err, ErrInvalidViewport)

	vp, err := NewViewport(128, 64, 20)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(64, 32), vp.Origin)
}

func TestProject(t *testing.T) {
	vp := DefaultViewport()

	tests := []struct {
		name string
		x, y float64
		want image.Point
		ok   bool
	}{
		{"forward 1m", 1000, 0, image.Pt(114, 32), true},
		{"origin", 0, 0, image.Pt(64, 32), true},
		{"up is minus row", 0, 400, image.Pt(64, 12), true},
		{"down is plus row", 0, -400, image.Pt(64, 52), true},
		{"rounds half away", 30, 0, image.Pt(66, 32), true},
		{"right edge", 63 * 20, 0, image.Pt(127, 32), true},
		{"past right edge", 64 * 20, 0, image.Point{}, false},
		{"past top", 0, 33 * 20, image.Point{}, false},
		{"left edge", -64 * 20, 0, image.Pt(0, 32), true},
		{"past left edge", -65 * 20, 0, image.Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := vp.Project(scan.NewSample(tt.x, tt.y, 0))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestProjectInvalid(t *testing.T) {
	_, ok := DefaultViewport().Project(scan.Invalid(0))
	assert.False(t, ok)
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	for _, scale := range []float64{1, 7.5, 20, 33} {
		vp, err := NewViewport(128, 64, scale)
		require.NoError(t, err)

		for py := 0; py < vp.Height; py++ {
			for px := 0; px < vp.Width; px++ {
				in := image.Pt(px, py)
				v := vp.Unproject(in)
				out, ok := vp.Project(scan.NewSample(v.X, v.Y, 0))
				require.True(t, ok, "scale=%v pixel=%v", scale, in)
				assert.LessOrEqual(t, abs(out.X-in.X), 1)
				assert.LessOrEqual(t, abs(out.Y-in.Y), 1)
			}
		}
	}
}

func TestMarkerSizeIsMonotonic(t *testing.T) {
	for count := 1; count <= 12; count++ {
		prevR, prevI := -1, -1.0
		for age := 0; age < count; age++ {
			r := MarkerRadius(age, count)
			i := MarkerIntensity(age, count)
			assert.GreaterOrEqual(t, r, prevR)
			assert.GreaterOrEqual(t, i, prevI)
			prevR, prevI = r, i
		}
		assert.Equal(t, 2, MarkerRadius(count-1, count), "newest is largest")
		assert.Equal(t, 1.0, MarkerIntensity(count-1, count), "newest is brightest")
	}

	assert.Equal(t, 0, MarkerRadius(0, 10))
	assert.InDelta(t, minIntensity, MarkerIntensity(0, 10), 1e-9)
}

func TestMarkerEmptyHistory(t *testing.T) {
	assert.NotPanics(t, func() {
		MarkerRadius(0, 0)
		MarkerIntensity(0, 0)
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
