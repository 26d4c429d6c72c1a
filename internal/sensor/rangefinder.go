package sensor

import (
	"math"
	"math/rand"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/scan"
)

// VL53L0X range status codes we care about.
const (
	StatusValid     = 0
	StatusPhaseFail = 4 // out of range or no return signal
	farField        = 9000.0
	minMeasurableMM = 30
)

// Room is an axis-aligned box around the scanner with an optional doorway
// in the north wall. Coordinates are millimeters, the scanner at the origin.
type Room struct {
	East, West   float64
	North, South float64
	DoorFrom     float64
	DoorTo       float64
}

// DefaultRoom returns the simulated test room.
func DefaultRoom() Room {
	return Room{
		East: config.SimWallEast, West: config.SimWallWest,
		North: config.SimWallNorth, South: config.SimWallSouth,
		DoorFrom: config.SimDoorFromX, DoorTo: config.SimDoorToX,
	}
}

// Distance casts a ray at angle degrees (0 = +X, counter-clockwise) and
// returns the distance to the first wall, or farField through the doorway.
func (r Room) Distance(angle float64) float64 {
	rad := angle * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	best := math.Inf(1)
	hitNorth := false
	if dx > 1e-12 {
		best = math.Min(best, r.East/dx)
	} else if dx < -1e-12 {
		best = math.Min(best, r.West/dx)
	}
	if dy > 1e-12 {
		if t := r.North / dy; t < best {
			best, hitNorth = t, true
		}
	} else if dy < -1e-12 {
		best = math.Min(best, r.South/dy)
	}

	if hitNorth {
		x := best * dx
		if x >= r.DoorFrom && x <= r.DoorTo {
			return farField
		}
	}
	return best
}

// Measurement is one raw ranging result.
type Measurement struct {
	RangeMM int
	Status  int
}

// Rangefinder simulates a VL53L0X on the mount, pointing along the mount's
// true heading.
type Rangefinder struct {
	bus       Bus
	room      Room
	direction func() float64
	noise     float64
	rng       *rand.Rand
	present   bool
}

// NewRangefinder wires a ToF sensor. direction returns the true bearing of
// the mount in degrees.
func NewRangefinder(bus Bus, room Room, direction func() float64, rng *rand.Rand) *Rangefinder {
	return &Rangefinder{
		bus:       bus,
		room:      room,
		direction: direction,
		noise:     config.SimRangeNoise,
		rng:       rng,
	}
}

// Begin checks the chip answers on the bus.
func (r *Rangefinder) Begin() error {
	if err := probe(r.bus, config.AddrRangefinder, "VL53L0X"); err != nil {
		r.present = false
		return err
	}
	r.present = true
	return nil
}

// RangingTest performs a single measurement.
func (r *Rangefinder) RangingTest() (Measurement, error) {
	if !r.present {
		return Measurement{Status: StatusPhaseFail}, ErrDeviceNotFound
	}

	d := r.room.Distance(r.direction())
	if r.noise > 0 && r.rng != nil {
		d += r.rng.NormFloat64() * r.noise
	}

	m := Measurement{RangeMM: int(math.Round(d)), Status: StatusValid}
	if d > config.RangeSensorMax || d < minMeasurableMM {
		m.Status = StatusPhaseFail
	}
	return m, nil
}

// Measure implements scan.RangeSource. Phase failures map to no-target.
func (r *Rangefinder) Measure() (scan.Range, error) {
	m, err := r.RangingTest()
	if err != nil {
		return scan.NoTarget(), err
	}
	return ToRange(m), nil
}

// ToRange converts a raw measurement into a reading.
func ToRange(m Measurement) scan.Range {
	if m.Status == StatusPhaseFail {
		return scan.NoTarget()
	}
	return scan.ValidRange(m.RangeMM)
}
