package sensor

import (
	"math"
	"time"
)

// Mount is the simulated turntable both sensors sit on. It turns at a
// constant rate from the moment it is created.
type Mount struct {
	RPM       float64
	StartTime time.Time
	now       func() time.Time
}

// NewMount creates a mount starting at 0 degrees (north).
func NewMount(rpm float64) *Mount {
	return NewMountWithClock(rpm, time.Now)
}

// NewMountWithClock is NewMount with an injectable time source.
func NewMountWithClock(rpm float64, now func() time.Time) *Mount {
	return &Mount{
		RPM:       rpm,
		StartTime: now(),
		now:       now,
	}
}

// Degrees returns the magnetic heading of the mount in [0, 360).
func (m *Mount) Degrees() float64 {
	elapsed := m.now().Sub(m.StartTime).Seconds()
	rps := m.RPM / 60.0 // rotations per second
	return normalizeDegrees(elapsed * rps * 360)
}

func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
