package sensor

import (
	"math"
	"math/rand"

	"polar-scanner.klederson.com/internal/config"
)

const fieldAmplitude = 800.0 // raw counts of the horizontal field component

// Calibration holds the hard-iron bounds of the two horizontal axes.
type Calibration struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// DefaultCalibration returns the fixed build-time bounds.
func DefaultCalibration() Calibration {
	return Calibration{
		MinX: config.CompassMinX, MaxX: config.CompassMaxX,
		MinY: config.CompassMinY, MaxY: config.CompassMaxY,
	}
}

func (c Calibration) apply(x, y float64) (float64, float64) {
	return (x - (c.MaxX+c.MinX)/2) / ((c.MaxX - c.MinX) / 2),
		(y - (c.MaxY+c.MinY)/2) / ((c.MaxY - c.MinY) / 2)
}

// Compass simulates a QMC5883L on the mount. Azimuth is smoothed over the
// last few raw readings inside the driver, like the chip library does.
type Compass struct {
	bus     Bus
	mount   *Mount
	cal     Calibration
	jitter  float64
	rng     *rand.Rand
	present bool

	steps    int
	advanced bool
	xs, ys   []float64
	pos      int
	count    int

	azimuth float64
}

// NewCompass wires a compass to the bus and the mount it reads heading from.
func NewCompass(bus Bus, mount *Mount, rng *rand.Rand) *Compass {
	c := &Compass{
		bus:    bus,
		mount:  mount,
		cal:    DefaultCalibration(),
		jitter: config.SimHeadingJit,
		rng:    rng,
	}
	c.SetSmoothing(1, false)
	return c
}

// Begin checks the chip answers on the bus.
func (c *Compass) Begin() error {
	if err := probe(c.bus, config.AddrCompass, "QMC5883L"); err != nil {
		c.present = false
		return err
	}
	c.present = true
	return nil
}

// SetSmoothing averages the last steps raw readings. Advanced smoothing drops
// the highest and lowest value of each axis before averaging.
func (c *Compass) SetSmoothing(steps int, advanced bool) {
	if steps < 1 {
		steps = 1
	}
	c.steps = steps
	c.advanced = advanced
	c.xs = make([]float64, steps)
	c.ys = make([]float64, steps)
	c.pos = 0
	c.count = 0
}

// Read takes one raw sample and updates the smoothed azimuth. A missing
// chip leaves the previous azimuth in place.
func (c *Compass) Read() error {
	if !c.present {
		return ErrDeviceNotFound
	}

	h := c.mount.Degrees()
	if c.jitter > 0 && c.rng != nil {
		h += c.rng.NormFloat64() * c.jitter
	}
	rx, ry := c.raw(h)

	c.xs[c.pos] = rx
	c.ys[c.pos] = ry
	c.pos = (c.pos + 1) % c.steps
	if c.count < c.steps {
		c.count++
	}

	x, y := c.cal.apply(c.smooth(c.xs), c.smooth(c.ys))
	c.azimuth = normalizeDegrees(math.Atan2(y, x) * 180 / math.Pi)
	return nil
}

// raw returns the uncalibrated field reading for a magnetic heading.
func (c *Compass) raw(heading float64) (float64, float64) {
	rad := heading * math.Pi / 180
	ox := (c.cal.MaxX + c.cal.MinX) / 2
	oy := (c.cal.MaxY + c.cal.MinY) / 2
	return ox + fieldAmplitude*math.Cos(rad), oy + fieldAmplitude*math.Sin(rad)
}

func (c *Compass) smooth(vals []float64) float64 {
	live := vals[:c.count]
	sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for _, v := range live {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if c.advanced && len(live) > 2 {
		return (sum - lo - hi) / float64(len(live)-2)
	}
	return sum / float64(len(live))
}

// Azimuth returns the last smoothed heading in degrees, [0, 360).
func (c *Compass) Azimuth() float64 {
	return c.azimuth
}
