package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/display"
	"polar-scanner.klederson.com/internal/logger"
	"polar-scanner.klederson.com/internal/radar"
	"polar-scanner.klederson.com/internal/scan"
	"polar-scanner.klederson.com/internal/sensor"
	"polar-scanner.klederson.com/internal/trace"
)

// Rig is the assembled scanner: bus, sensors, display and pipeline.
type Rig struct {
	Settings    *config.Settings
	Bus         *sensor.SimBus
	Mount       *sensor.Mount
	Compass     *sensor.Compass
	Rangefinder *sensor.Rangefinder
	Terminal    *display.Terminal
	Renderer    *radar.Renderer
	Pipeline    *Pipeline
	TraceTarget string
	Degraded    bool

	trace io.Closer
}

// NewRig builds the scanner from settings. Missing sensors are reported and
// leave the rig degraded; configuration errors fail.
func NewRig(s *config.Settings) (*Rig, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r := &Rig{Settings: s}

	r.Bus = sensor.NewSimBus(PresentDevices(s)...)
	sensor.ScanBus(r.Bus)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Mount = sensor.NewMount(config.SimRotationRPM)

	r.Compass = sensor.NewCompass(r.Bus, r.Mount, rng)
	if err := r.Compass.Begin(); err != nil {
		logger.Warn().Err(err).Msg("compass not found, headings will be stale")
		r.Degraded = true
	} else {
		logger.Info().Msg("compass started")
	}
	r.Compass.SetSmoothing(config.CompassSmoothSteps, true)

	bearing := func() float64 { return scan.CorrectAzimuth(r.Mount.Degrees(), s.Declination) }
	r.Rangefinder = sensor.NewRangefinder(r.Bus, sensor.DefaultRoom(), bearing, rng)
	if err := r.Rangefinder.Begin(); err != nil {
		logger.Warn().Err(err).Msg("rangefinder not found, every cycle reports no target")
		r.Degraded = true
	}

	history, err := scan.NewHistory(s.HistoryCapacity)
	if err != nil {
		return nil, err
	}
	fusion, err := scan.NewFusion(scan.FusionConfig{
		Declination:    s.Declination,
		MaxAcceptRange: s.MaxAcceptRange,
		Clock:          scan.BootClock(),
	}, r.Compass, r.Rangefinder, history)
	if err != nil {
		return nil, err
	}

	vp, err := radar.NewViewport(config.ViewportWidth, config.ViewportHeight, s.ScaleMMPerPx)
	if err != nil {
		return nil, err
	}

	var sink display.Sink = display.Nop{}
	if err := r.Bus.Probe(config.AddrDisplay); err != nil {
		logger.Warn().Err(err).Msg("display not found, frames are discarded")
	} else {
		r.Terminal = display.NewTerminal()
		sink = display.NewFramebuffer(vp.Width, vp.Height, s.Monochrome, r.Terminal.Show)
	}
	r.Renderer = radar.NewRenderer(sink, vp)

	out, target, err := OpenTrace(s)
	if err != nil {
		return nil, err
	}
	r.TraceTarget = target
	var tw *trace.Writer
	if out != nil {
		tw = trace.NewWriter(out, s.CSVHeader)
		r.trace = tw
	}

	r.Pipeline = NewPipeline(fusion, r.Renderer, tw)
	return r, nil
}

// PresentDevices lists the bus addresses of the simulated devices that are
// not configured as absent.
func PresentDevices(s *config.Settings) []uint8 {
	var present []uint8
	for _, d := range []struct {
		name string
		addr uint8
	}{
		{"compass", config.AddrCompass},
		{"rangefinder", config.AddrRangefinder},
		{"display", config.AddrDisplay},
	} {
		if !s.IsAbsent(d.name) {
			present = append(present, d.addr)
		}
	}
	return present
}

// Splash draws the boot screen and, when wait is set, holds it for the
// splash delay or until ctx ends.
func (r *Rig) Splash(ctx context.Context, wait bool) error {
	if err := r.Renderer.RenderSplash(); err != nil {
		return err
	}
	if !wait {
		return nil
	}
	select {
	case <-ctx.Done():
	case <-time.After(config.SplashDelay):
	}
	return nil
}

// Close releases the trace output.
func (r *Rig) Close() error {
	if r.trace == nil {
		return nil
	}
	return r.trace.Close()
}

// OpenTrace picks the CSV destination: a serial port, a file, stdout for
// "-" or headless runs, or nothing.
func OpenTrace(s *config.Settings) (io.Writer, string, error) {
	switch {
	case s.SerialPort != "":
		port, err := trace.OpenSerial(s.SerialPort, trace.PortOptions{
			BaudRate: s.SerialBaud,
			DataBits: s.SerialDataBits,
			StopBits: s.SerialStopBits,
			Parity:   s.SerialParity,
		})
		if err != nil {
			return nil, "", err
		}
		return port, fmt.Sprintf("%s@%d", s.SerialPort, s.SerialBaud), nil
	case s.CSVPath == "-":
		return nopCloser{os.Stdout}, "stdout", nil
	case s.CSVPath != "":
		f, err := os.Create(s.CSVPath)
		if err != nil {
			return nil, "", fmt.Errorf("create trace file: %w", err)
		}
		return f, s.CSVPath, nil
	case s.Headless:
		return nopCloser{os.Stdout}, "stdout", nil
	default:
		return nil, "", nil
	}
}

// nopCloser keeps Writer.Close from closing stdout.
type nopCloser struct {
	io.Writer
}
