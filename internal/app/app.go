package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/logger"
	"polar-scanner.klederson.com/internal/ui"
)

// shared is the part of the model every value copy must agree on.
type shared struct {
	rig *Rig
}

// AppModel is the root Bubble Tea model. Every scan cycle runs inside Update,
// so the history is only ever touched by the Bubble Tea event loop.
type AppModel struct {
	width  int
	height int

	running bool
	splash  bool
	delay   time.Duration

	shared *shared
}

// New creates an AppModel around an assembled rig.
func New(rig *Rig) AppModel {
	return AppModel{
		running: true,
		splash:  true,
		delay:   rig.Settings.CycleDelay,
		shared:  &shared{rig: rig},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Tick(config.SplashDelay, func(time.Time) tea.Msg {
		return SplashDoneMsg{}
	})
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SplashDoneMsg:
		m.splash = false
		return m, tickCmd(m.delay)

	case TickMsg:
		if m.running {
			if _, err := m.shared.rig.Pipeline.Step(); err != nil {
				logger.Warn().Err(err).Msg("cycle output failed")
			}
		}
		return m, tickCmd(m.delay)
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "s", "S":
		m.running = true

	case "p", "P":
		m.running = false
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	rig := m.shared.rig
	p := rig.Pipeline

	menuBar := ui.RenderMenuBar(m.width, rig.TraceTarget, m.running && !m.splash)

	frameW := config.ViewportWidth
	frameH := (config.ViewportHeight + 1) / 2
	frame := "(no display)"
	if rig.Terminal != nil {
		frame = rig.Terminal.View()
	}
	scope := ui.RenderScopePanel(frame, frameW, frameH)

	// The right column matches the scope panel's height: the trail list
	// gets a line per slot plus title, separator and border.
	sideW := max(m.width-frameW-2, 24)
	listH := p.History().Cap() + 4
	list := ui.RenderHistoryList(p.History(), sideW, listH)
	bearing := ui.RenderBearingPanel(p.Latest(), p.History(), rig.Settings.MaxAcceptRange, sideW, max(frameH+2-listH, 10))

	status := ui.RenderStatusBar(m.width, ui.Status{
		Running:  m.running,
		Degraded: rig.Degraded,
		Latest:   p.Latest(),
		Filled:   p.History().Len(),
		Capacity: p.History().Cap(),
		Cycles:   p.Cycles(),
		Accepted: p.Accepted(),
		Scale:    rig.Settings.ScaleMMPerPx,
	})

	return ui.ComposeLayout(menuBar, scope, list, bearing, status)
}

func tickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
