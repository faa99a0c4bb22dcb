package main

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/snapkit/internal/config"
	"github.com/olivier-w/snapkit/internal/gesture"
	"github.com/olivier-w/snapkit/internal/snap"
	"github.com/olivier-w/snapkit/internal/surface"
)

const (
	surfaceID   = "sheet"
	dragStep    = 2 // rows per key repeat
	maxTickGap  = 250 * time.Millisecond
	framePeriod = time.Second / 60
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(framePeriod, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// engineState collects the engine's callback output. It lives behind a
// pointer so the value-copied Bubbletea model and the surface callbacks
// observe the same data.
type engineState struct {
	value     float64
	settledID string
	dismissed bool
	reduced   bool
}

type sheetModel struct {
	cfg   config.Demo
	state *engineState

	reg   *surface.Registry
	sheet *surface.Surface

	width  int
	height int

	dragging    bool
	pointerSeq  int64
	translation float64

	lastTick time.Time
	clock    func() time.Time

	progress progress.Model
	quitting bool
}

func newSheetModel(cfg config.Demo) sheetModel {
	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)
	return sheetModel{
		cfg:      cfg,
		state:    &engineState{reduced: cfg.ReducedMotion, settledID: "closed"},
		progress: p,
		clock:    time.Now,
	}
}

// rebuildSurface lays the snap points out for the current terminal height
// and recreates the surface at its last settled point. The snap set is
// fixed per session, so a resize starts a fresh session.
func (m *sheetModel) rebuildSurface() error {
	h := float64(m.height)
	set, err := snap.NewSet([]snap.Point{
		{ID: "open", Position: 2},
		{ID: "half", Position: h / 2},
		{ID: "closed", Position: h - 4},
	}, &snap.Point{Position: h + 2})
	if err != nil {
		return err
	}

	cfg := surface.Config{}
	cfg.Spring.FPS = m.cfg.FPS
	cfg.Spring.AngularFrequency = m.cfg.AngularFrequency
	cfg.Spring.DampingRatio = m.cfg.DampingRatio
	cfg.Spring.Epsilon = 0.05
	cfg.FlickThreshold = m.cfg.FlickThreshold
	cfg.Overscroll = m.cfg.Overscroll
	cfg.DismissThreshold = h - 2
	state := m.state
	cfg.ReducedMotion = func() bool { return state.reduced }

	initial := state.settledID
	if initial == "" {
		initial = "closed"
	}

	reg := surface.NewRegistry()
	s, err := reg.Add(surfaceID, cfg, set, initial, surface.Callbacks{
		OnValueChange: func(v float64) { state.value = v },
		OnSettled:     func(id string) { state.settledID = id },
		OnDismissed:   func() { state.dismissed = true },
	})
	if err != nil {
		return err
	}

	m.reg = reg
	m.sheet = s
	m.dragging = false
	m.state.value = s.Value()
	return nil
}

func (m sheetModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle("snapkit"))
}

func (m sheetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 12
		if barWidth < 16 {
			barWidth = 16
		}
		if barWidth > 48 {
			barWidth = 48
		}
		m.progress.Width = barWidth
		if err := m.rebuildSurface(); err != nil {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if m.reg != nil && !m.lastTick.IsZero() {
			elapsed := now.Sub(m.lastTick)
			if elapsed > maxTickGap {
				elapsed = maxTickGap
			}
			m.reg.Tick(elapsed)
		}
		m.lastTick = now
		if m.state.dismissed {
			m.quitting = true
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m sheetModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sheet == nil {
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case "j", "down":
		return m.drag(dragStep), nil
	case "k", "up":
		return m.drag(-dragStep), nil

	case "enter", " ":
		if m.dragging {
			m.sheet.EndDrag(m.pointerSeq, m.clock())
			m.dragging = false
		}
		return m, nil

	case "esc":
		if m.dragging {
			m.sheet.CancelDrag(m.pointerSeq)
			m.dragging = false
		}
		return m, nil

	case "o":
		m.sheet.SnapTo("open")
		return m, nil
	case "h":
		m.sheet.SnapTo("half")
		return m, nil
	case "c":
		m.sheet.SnapTo("closed")
		return m, nil

	case "r":
		m.state.reduced = !m.state.reduced
		return m, nil
	}

	return m, nil
}

// drag moves the synthetic pointer. Holding a movement key autorepeats,
// which gives the tracker real timestamps to estimate flick velocity from.
func (m sheetModel) drag(delta float64) sheetModel {
	now := m.clock()
	if !m.dragging {
		m.pointerSeq++
		if err := m.sheet.StartDrag(m.pointerSeq, now); err != nil {
			return m
		}
		m.dragging = true
		m.translation = 0
	}
	m.translation += delta
	m.sheet.Drag(m.pointerSeq, m.translation, now)
	return m
}

func (m sheetModel) status() gesture.Status {
	if m.sheet == nil {
		return gesture.Idle
	}
	return m.sheet.Status()
}
