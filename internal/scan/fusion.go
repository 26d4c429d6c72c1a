package scan

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/logger"
)

const deg2rad = math.Pi / 180

// HeadingSource is a compass that reports an already smoothed azimuth.
type HeadingSource interface {
	Read() error
	Azimuth() float64 // degrees, [0, 360)
}

// RangeSource is a time-of-flight distance sensor.
type RangeSource interface {
	Measure() (Range, error)
}

// Clock returns milliseconds since boot.
type Clock func() uint64

// BootClock returns a Clock anchored at the time of the call.
func BootClock() Clock {
	boot := time.Now()
	return func() uint64 {
		return uint64(time.Since(boot).Milliseconds())
	}
}

// Result is what one acquisition cycle produced, whether or not the sample
// was retained in history.
type Result struct {
	At       uint64
	AngleDeg float64 // declination-corrected, [0, 360)
	Range    Range
	Sample   Sample
	Accepted bool
}

type FusionConfig struct {
	Declination    float64
	MaxAcceptRange int // mm, inclusive
	Clock          Clock
}

// Fusion combines one heading source and one range source into samples.
type Fusion struct {
	heading HeadingSource
	ranger  RangeSource
	history *History
	cfg     FusionConfig
	log     zerolog.Logger
}

func NewFusion(cfg FusionConfig, heading HeadingSource, ranger RangeSource, history *History) (*Fusion, error) {
	if heading == nil || ranger == nil || history == nil {
		return nil, errors.New("fusion needs a heading source, a range source and a history")
	}
	if cfg.MaxAcceptRange <= 0 {
		return nil, fmt.Errorf("%w: got %d", config.ErrInvalidRange, cfg.MaxAcceptRange)
	}
	if cfg.Clock == nil {
		cfg.Clock = BootClock()
	}
	return &Fusion{
		heading: heading,
		ranger:  ranger,
		history: history,
		cfg:     cfg,
		log:     logger.With("fusion"),
	}, nil
}

// History returns the buffer accepted samples are pushed into.
func (f *Fusion) History() *History {
	return f.history
}

// Cycle runs one read-fuse-filter step. Sensor errors degrade to stale
// headings and no-target ranges; they never stop the loop.
func (f *Fusion) Cycle() Result {
	if err := f.heading.Read(); err != nil {
		f.log.Debug().Err(err).Msg("heading read failed, using last azimuth")
	}
	angle := CorrectAzimuth(f.heading.Azimuth(), f.cfg.Declination)
	theta := angle * deg2rad

	r, err := f.ranger.Measure()
	if err != nil {
		f.log.Debug().Err(err).Msg("range measure failed")
		r = NoTarget()
	}
	// Only a positive distance is a target.
	if mm, ok := r.MM(); ok && mm <= 0 {
		r = NoTarget()
	}

	res := Result{
		At:       f.cfg.Clock(),
		AngleDeg: angle,
		Range:    r,
	}

	mm, ok := r.MM()
	if !ok {
		res.Sample = Invalid(res.At)
		return res
	}

	d := float64(mm)
	res.Sample = NewSample(d*math.Cos(theta), d*math.Sin(theta), res.At)

	if mm <= f.cfg.MaxAcceptRange {
		f.history.Push(res.Sample)
		res.Accepted = true
	}
	return res
}

// CorrectAzimuth applies the declination and folds the result back into
// [0, 360) with a single correction. Both inputs must already lie within one
// turn, which Settings.Validate guarantees for the declination.
func CorrectAzimuth(azimuth, declination float64) float64 {
	a := azimuth + declination
	if a < 0 {
		a += 360
	} else if a >= 360 {
		a -= 360
	}
	// a tiny negative sum rounds up to exactly 360 after the fold
	if a >= 360 {
		a = 0
	}
	return a
}
