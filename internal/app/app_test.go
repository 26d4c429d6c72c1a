package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/display"
	"polar-scanner.klederson.com/internal/radar"
	"polar-scanner.klederson.com/internal/scan"
	"polar-scanner.klederson.com/internal/trace"
)

type fixedHeading struct{ az float64 }

func (h *fixedHeading) Read() error       { return nil }
func (h *fixedHeading) Azimuth() float64 { return h.az }

type fixedRange struct {
	r   scan.Range
	err error
}

func (f *fixedRange) Measure() (scan.Range, error) { return f.r, f.err }

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("port gone") }

func newTestPipeline(t *testing.T, ranger *fixedRange, out *bytes.Buffer) (*Pipeline, *display.Framebuffer) {
	t.Helper()

	history, err := scan.NewHistory(config.HistoryCapacity)
	require.NoError(t, err)

	var now uint64
	fusion, err := scan.NewFusion(scan.FusionConfig{
		MaxAcceptRange: config.MaxAcceptRange,
		Clock:          func() uint64 { now += 100; return now },
	}, &fixedHeading{az: 0}, ranger, history)
	require.NoError(t, err)

	fb := display.NewFramebuffer(config.ViewportWidth, config.ViewportHeight, true, nil)
	renderer := radar.NewRenderer(fb, radar.DefaultViewport())

	var tw *trace.Writer
	if out != nil {
		tw = trace.NewWriter(out, false)
	}
	return NewPipeline(fusion, renderer, tw), fb
}

func testSettings() *config.Settings {
	return &config.Settings{
		Declination:     config.Declination,
		ScaleMMPerPx:    config.ScaleMMPerPx,
		HistoryCapacity: config.HistoryCapacity,
		MaxAcceptRange:  config.MaxAcceptRange,
		CycleDelay:      config.CycleDelay,
		Monochrome:      true,
	}
}

func TestPipelineStep(t *testing.T) {
	var out bytes.Buffer
	p, fb := newTestPipeline(t, &fixedRange{r: scan.ValidRange(1000)}, &out)

	res, err := p.Step()
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.Equal(t, 1, p.Cycles())
	assert.Equal(t, 1, p.Accepted())
	assert.Equal(t, 1, p.History().Len())
	assert.Equal(t, res, p.Latest())
	assert.Equal(t, "100,0.00,1000,1000.0,0.0\n", out.String())

	// 1000mm east at 20mm/px lands 50px right of the origin.
	assert.NotZero(t, fb.Last().At(114, 32))
}

func TestPipelineStepRejected(t *testing.T) {
	var out bytes.Buffer
	p, _ := newTestPipeline(t, &fixedRange{r: scan.ValidRange(4001)}, &out)

	res, err := p.Step()
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Equal(t, 0, p.History().Len())
	assert.Equal(t, 0, p.Accepted())
	assert.Equal(t, "100,0.00,4001,4001.0,0.0\n", out.String())
}

func TestPipelineStepNoTarget(t *testing.T) {
	tests := []struct {
		name string
		r    scan.Range
	}{
		{"sentinel", scan.NoTarget()},
		{"zero distance", scan.ValidRange(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p, _ := newTestPipeline(t, &fixedRange{r: tt.r}, &out)

			res, err := p.Step()
			require.NoError(t, err)
			assert.False(t, res.Accepted)
			assert.False(t, res.Sample.Valid())
			assert.Equal(t, 0, p.History().Len())
			assert.Equal(t, "100,0.00,-1,NaN,NaN\n", out.String())
		})
	}
}

func TestPipelineStepWithoutTrace(t *testing.T) {
	p, _ := newTestPipeline(t, &fixedRange{r: scan.ValidRange(500)}, nil)

	for range 12 {
		_, err := p.Step()
		require.NoError(t, err)
	}
	assert.Equal(t, 12, p.Cycles())
	assert.Equal(t, config.HistoryCapacity, p.History().Len())
}

func TestPipelineTraceErrorKeepsCycle(t *testing.T) {
	history, err := scan.NewHistory(4)
	require.NoError(t, err)
	fusion, err := scan.NewFusion(scan.FusionConfig{MaxAcceptRange: 4000},
		&fixedHeading{az: 90}, &fixedRange{r: scan.ValidRange(200)}, history)
	require.NoError(t, err)

	p := NewPipeline(fusion, radar.NewRenderer(display.Nop{}, radar.DefaultViewport()),
		trace.NewWriter(failWriter{}, false))

	res, err := p.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port gone")
	assert.True(t, res.Accepted)
	assert.Equal(t, 1, history.Len())
}

func TestRunHeadless(t *testing.T) {
	var out bytes.Buffer
	p, _ := newTestPipeline(t, &fixedRange{r: scan.ValidRange(1500)}, &out)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	require.NoError(t, RunHeadless(ctx, p, 10*time.Millisecond))
	assert.Positive(t, p.Cycles())
	assert.Equal(t, p.Cycles(), strings.Count(out.String(), "\n"))
}

func TestRunHeadlessInvalidDelay(t *testing.T) {
	p, _ := newTestPipeline(t, &fixedRange{r: scan.NoTarget()}, nil)
	assert.Error(t, RunHeadless(context.Background(), p, 0))
}

func TestNewRig(t *testing.T) {
	rig, err := NewRig(testSettings())
	require.NoError(t, err)
	defer rig.Close()

	assert.False(t, rig.Degraded)
	assert.NotNil(t, rig.Terminal)
	assert.Empty(t, rig.TraceTarget)

	require.NoError(t, rig.Splash(context.Background(), false))
	splash := rig.Terminal.Frame()
	require.NotEmpty(t, splash.Text)
	assert.Equal(t, config.SplashText, splash.Text[0].S)
	assert.Zero(t, splash.Lit())

	_, err = rig.Pipeline.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, rig.Pipeline.Cycles())
}

func TestNewRigAbsentDevices(t *testing.T) {
	s := testSettings()
	s.Absent = []string{"compass", "rangefinder", "display"}

	rig, err := NewRig(s)
	require.NoError(t, err)
	defer rig.Close()

	assert.True(t, rig.Degraded)
	assert.Nil(t, rig.Terminal)
	assert.Empty(t, PresentDevices(s))

	res, err := rig.Pipeline.Step()
	require.NoError(t, err)
	assert.False(t, res.Range.Valid())
	assert.False(t, res.Accepted)
	assert.Equal(t, 0, rig.Pipeline.History().Len())
}

func TestNewRigInvalidSettings(t *testing.T) {
	s := testSettings()
	s.ScaleMMPerPx = 0

	_, err := NewRig(s)
	assert.ErrorIs(t, err, config.ErrInvalidScale)
}

func TestNewRigTraceFile(t *testing.T) {
	s := testSettings()
	s.CSVPath = t.TempDir() + "/trace.csv"
	s.CSVHeader = true

	rig, err := NewRig(s)
	require.NoError(t, err)
	assert.Equal(t, s.CSVPath, rig.TraceTarget)

	_, err = rig.Pipeline.Step()
	require.NoError(t, err)
	require.NoError(t, rig.Close())
}

func TestOpenTraceSerialFraming(t *testing.T) {
	s := testSettings()
	s.SerialPort = "/dev/polar-scanner-missing"
	s.SerialParity = "mark"

	_, _, err := OpenTrace(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported parity")

	s.SerialParity = "E"
	s.SerialStopBits = 2
	_, _, err = OpenTrace(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open serial port /dev/polar-scanner-missing")
}

func TestOpenTraceNone(t *testing.T) {
	out, target, err := OpenTrace(testSettings())
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, target)
}

func TestOpenTraceHeadlessDefaultsToStdout(t *testing.T) {
	s := testSettings()
	s.Headless = true

	out, target, err := OpenTrace(s)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, "stdout", target)
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelTickStepsPipeline(t *testing.T) {
	rig, err := NewRig(testSettings())
	require.NoError(t, err)
	defer rig.Close()

	m := New(rig)
	require.NotNil(t, m.Init())

	next, cmd := m.Update(SplashDoneMsg{})
	assert.NotNil(t, cmd)

	next, cmd = next.Update(TickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, rig.Pipeline.Cycles())

	next, _ = next.Update(keyMsg('p'))
	next, _ = next.Update(TickMsg(time.Now()))
	assert.Equal(t, 1, rig.Pipeline.Cycles(), "paused model must not step")

	next, _ = next.Update(keyMsg('s'))
	_, _ = next.Update(TickMsg(time.Now()))
	assert.Equal(t, 2, rig.Pipeline.Cycles())
}

func TestModelQuit(t *testing.T) {
	rig, err := NewRig(testSettings())
	require.NoError(t, err)
	defer rig.Close()

	_, cmd := New(rig).Update(keyMsg('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelView(t *testing.T) {
	rig, err := NewRig(testSettings())
	require.NoError(t, err)
	defer rig.Close()

	m := New(rig)
	assert.Contains(t, m.View(), "Initializing")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})
	next, _ = next.Update(TickMsg(time.Now()))

	view := next.View()
	assert.Contains(t, view, config.AppName)
	assert.Contains(t, view, "TRAIL")
	assert.Contains(t, view, "Cycles: 1")
}
