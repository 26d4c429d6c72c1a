package scan

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polar-scanner.klederson.com/internal/config"
)

type fakeHeading struct {
	az      float64
	readErr error
	reads   int
}

func (f *fakeHeading) Read() error {
	f.reads++
	return f.readErr
}

func (f *fakeHeading) Azimuth() float64 { return f.az }

type fakeRange struct {
	r   Range
	err error
}

func (f *fakeRange) Measure() (Range, error) { return f.r, f.err }

func fixedClock(t uint64) Clock {
	return func() uint64 { return t }
}

func newTestFusion(t *testing.T, decl float64, h HeadingSource, r RangeSource) (*Fusion, *History) {
	t.Helper()
	hist, err := NewHistory(10)
	require.NoError(t, err)
	f, err := NewFusion(FusionConfig{
		Declination:    decl,
		MaxAcceptRange: 4000,
		Clock:          fixedClock(1234),
	}, h, r, hist)
	require.NoError(t, err)
	return f, hist
}

func TestCorrectAzimuth(t *testing.T) {
	tests := []struct {
		az, decl, want float64
	}{
		{10, -21, 349},
		{5, -21, 344},
		{0, 5, 5},
		{21, -21, 0},
		{359, 5, 4},
		{180, 0, 180},
		{0, -1e-14, 0},
	}
	for _, tt := range tests {
		got := CorrectAzimuth(tt.az, tt.decl)
		assert.InDelta(t, tt.want, got, 1e-9, "az=%v decl=%v", tt.az, tt.decl)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 360.0)
	}
}

func TestCycleForwardTarget(t *testing.T) {
	f, hist := newTestFusion(t, 0, &fakeHeading{az: 0}, &fakeRange{r: ValidRange(1000)})

	res := f.Cycle()

	assert.Equal(t, uint64(1234), res.At)
	assert.Equal(t, 0.0, res.AngleDeg)
	assert.Equal(t, 1000, res.Range.Millimeters())
	require.True(t, res.Sample.Valid())
	assert.InDelta(t, 1000, res.Sample.X(), 1e-9)
	assert.InDelta(t, 0, res.Sample.Y(), 1e-9)
	assert.True(t, res.Accepted)
	assert.Equal(t, 1, hist.Len())
}

func TestCycleAppliesDeclination(t *testing.T) {
	f, _ := newTestFusion(t, -21, &fakeHeading{az: 111}, &fakeRange{r: ValidRange(2000)})

	res := f.Cycle()

	assert.InDelta(t, 90, res.AngleDeg, 1e-9)
	assert.InDelta(t, 0, res.Sample.X(), 1e-9)
	assert.InDelta(t, 2000, res.Sample.Y(), 1e-9)
}

func TestCycleAcceptanceFilter(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		accepted bool
	}{
		{"sentinel", NoTarget(), false},
		{"zero distance", ValidRange(0), false},
		{"beyond bound", ValidRange(4001), false},
		{"at bound", ValidRange(4000), true},
		{"inside bound", ValidRange(3999), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, hist := newTestFusion(t, 0, &fakeHeading{az: 45}, &fakeRange{r: tt.r})

			res := f.Cycle()

			assert.Equal(t, tt.accepted, res.Accepted)
			if tt.accepted {
				require.Equal(t, 1, hist.Len())
				newest, _ := hist.Newest()
				assert.Equal(t, res.Sample.Pos, newest.Pos)
			} else {
				assert.Equal(t, 0, hist.Len())
			}
		})
	}
}

func TestCycleNoTargetKeepsAngle(t *testing.T) {
	f, hist := newTestFusion(t, -21, &fakeHeading{az: 10}, &fakeRange{r: NoTarget()})

	res := f.Cycle()

	assert.InDelta(t, 349, res.AngleDeg, 1e-9)
	assert.Equal(t, -1, res.Range.Millimeters())
	assert.False(t, res.Sample.Valid())
	assert.True(t, math.IsNaN(res.Sample.X()))
	assert.Equal(t, 0, hist.Len())
}

func TestCycleSensorErrorsDegrade(t *testing.T) {
	heading := &fakeHeading{az: 30, readErr: errors.New("bus timeout")}
	f, hist := newTestFusion(t, 0, heading, &fakeRange{r: ValidRange(500), err: errors.New("nack")})

	res := f.Cycle()

	assert.Equal(t, 1, heading.reads)
	assert.InDelta(t, 30, res.AngleDeg, 1e-9, "stale azimuth is still reported")
	assert.False(t, res.Range.Valid())
	assert.Equal(t, 0, hist.Len())
}

func TestCycleNegativeDistanceIsSentinel(t *testing.T) {
	f, hist := newTestFusion(t, 0, &fakeHeading{}, &fakeRange{r: ValidRange(-5)})

	res := f.Cycle()

	assert.False(t, res.Range.Valid())
	assert.Equal(t, 0, hist.Len())
}

func TestNewFusionValidation(t *testing.T) {
	hist, err := NewHistory(1)
	require.NoError(t, err)

	_, err = NewFusion(FusionConfig{MaxAcceptRange: 0}, &fakeHeading{}, &fakeRange{}, hist)
	require.ErrorIs(t, err, config.ErrInvalidRange)

	_, err = NewFusion(FusionConfig{MaxAcceptRange: 10}, nil, &fakeRange{}, hist)
	require.Error(t, err)
}
