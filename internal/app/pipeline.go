package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"polar-scanner.klederson.com/internal/logger"
	"polar-scanner.klederson.com/internal/radar"
	"polar-scanner.klederson.com/internal/scan"
	"polar-scanner.klederson.com/internal/trace"
)

// Pipeline runs one full cycle: acquire and fuse, redraw, then log the raw
// result. It is driven from a single goroutine.
type Pipeline struct {
	fusion   *scan.Fusion
	renderer *radar.Renderer
	trace    *trace.Writer

	cycles   int
	accepted int
	latest   scan.Result
	log      zerolog.Logger
}

// NewPipeline wires the stages. tw may be nil to disable the CSV trace.
func NewPipeline(fusion *scan.Fusion, renderer *radar.Renderer, tw *trace.Writer) *Pipeline {
	return &Pipeline{
		fusion:   fusion,
		renderer: renderer,
		trace:    tw,
		log:      logger.With("pipeline"),
	}
}

// Step runs one cycle. Render and trace failures are returned but the
// cycle's result is always valid and already applied to the history.
func (p *Pipeline) Step() (scan.Result, error) {
	res := p.fusion.Cycle()
	p.cycles++
	if res.Accepted {
		p.accepted++
	}
	p.latest = res

	var errs []error
	if err := p.renderer.RenderFrame(p.fusion.History(), res); err != nil {
		errs = append(errs, fmt.Errorf("render: %w", err))
	}
	if p.trace != nil {
		if err := p.trace.Write(res); err != nil {
			errs = append(errs, err)
		}
	}

	p.log.Debug().
		Uint64("t", res.At).
		Float64("angle", res.AngleDeg).
		Int("dist", res.Range.Millimeters()).
		Bool("accepted", res.Accepted).
		Msg("cycle")

	return res, errors.Join(errs...)
}

func (p *Pipeline) History() *scan.History { return p.fusion.History() }
func (p *Pipeline) Latest() scan.Result    { return p.latest }
func (p *Pipeline) Cycles() int            { return p.cycles }
func (p *Pipeline) Accepted() int          { return p.accepted }

// RunHeadless steps the pipeline every delay until ctx is cancelled.
func RunHeadless(ctx context.Context, p *Pipeline, delay time.Duration) error {
	if delay <= 0 {
		return fmt.Errorf("invalid cycle delay: %s", delay)
	}

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Int("cycles", p.cycles).Int("accepted", p.accepted).Msg("scan loop stopped")
			return nil
		case <-ticker.C:
			if _, err := p.Step(); err != nil {
				p.log.Warn().Err(err).Msg("cycle output failed")
			}
		}
	}
}
