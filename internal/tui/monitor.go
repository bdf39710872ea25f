// Package tui is a terminal telemetry monitor for the swarm: a live table
// of per-agent records with the point-of-view HUD on top.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Swarm-Sense/internal/swarm"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	countStep     = 10
	maxCount      = 500
	headerRows    = 5
)

const helpText = "q quit  space pause  f formation  [ ] count  +/- pov  j/k scroll"

var (
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleRetiring = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePov      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// Monitor owns the screen and the integrator. All of its methods run on
// the goroutine that calls Run.
type Monitor struct {
	screen tcell.Screen
	in     *swarm.Integrator
	last   swarm.Snapshot

	offset int // first record shown in the table
	paused bool
}

// NewMonitor wraps an initialised screen.
func NewMonitor(screen tcell.Screen, in *swarm.Integrator) *Monitor {
	return &Monitor{screen: screen, in: in, last: in.Telemetry()}
}

// Step advances the swarm one frame unless paused.
func (m *Monitor) Step() {
	if m.paused {
		return
	}
	m.last = m.in.Tick()
}

// Last returns the most recent snapshot.
func (m *Monitor) Last() swarm.Snapshot {
	return m.last
}

// Paused reports whether ticking is suspended.
func (m *Monitor) Paused() bool {
	return m.paused
}

// HandleEvent processes one screen event. It returns false when the
// monitor should exit.
func (m *Monitor) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return m.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		m.screen.Sync()
	}
	return true
}

// HandleKey applies one keypress. It returns false on quit.
func (m *Monitor) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		m.scroll(-1)
		return true
	case tcell.KeyDown:
		m.scroll(1)
		return true
	case tcell.KeyPgUp:
		m.scroll(-m.tableRows())
		return true
	case tcell.KeyPgDn:
		m.scroll(m.tableRows())
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	req := m.in.Request()
	switch r {
	case 'q':
		return false
	case ' ':
		m.paused = !m.paused
		return true
	case 'k':
		m.scroll(-1)
		return true
	case 'j':
		m.scroll(1)
		return true
	case '+', '=':
		m.in.SetPointOfView(m.in.PointOfViewIndex() + 1)
		return true
	case '-':
		m.in.SetPointOfView(max(m.in.PointOfViewIndex()-1, 0))
		return true
	case 'f':
		req.Kind = req.Kind.Next()
	case ']':
		req.Count = min(req.Count+countStep, maxCount)
	case '[':
		req.Count = max(req.Count-countStep, 1)
	default:
		return true
	}
	// Kinds come from Next, so Apply cannot reject them.
	_ = m.in.Apply(req)
	m.last = m.in.Telemetry()
	m.clampOffset()
	return true
}

func (m *Monitor) tableRows() int {
	_, h := m.screen.Size()
	return max(h-headerRows-1, 1)
}

func (m *Monitor) scroll(delta int) {
	m.offset += delta
	m.clampOffset()
}

func (m *Monitor) clampOffset() {
	maxOffset := max(len(m.last.Records)-m.tableRows(), 0)
	m.offset = min(max(m.offset, 0), maxOffset)
}

// Draw renders the header, the POV line and the visible slice of the table.
func (m *Monitor) Draw() {
	m.screen.Clear()
	w, h := m.screen.Size()

	state := "moving"
	if m.in.Settled() {
		state = "settled"
	}
	if m.paused {
		state = "paused"
	}
	mean, worst := m.in.Convergence()
	m.putString(0, 0, w, styleHeader, fmt.Sprintf("SWARM  frame %d  %s  %s", m.last.Frame, m.in.Request(), state))
	m.putString(0, 1, w, styleText, fmt.Sprintf("live %d  active %d  high-water %d  mean %.2f  worst %.2f",
		len(m.last.Records), m.last.ActiveCount(), m.in.HighWater(), mean, worst))

	if rec, ok := m.in.PointOfView(); ok {
		m.putString(0, 2, w, stylePov, "POV "+rec.String())
	} else {
		m.putString(0, 2, w, styleRetiring, fmt.Sprintf("POV %03d  (inactive)", m.in.PointOfViewIndex()))
	}
	if p, ok := m.in.Marker(); ok {
		m.putString(0, 3, w, styleText, fmt.Sprintf("marker X:%.2f Y:%.2f Z:%.2f", p[0], p[1], p[2]))
	}
	m.putString(0, 4, w, styleHeader, fmt.Sprintf("%-5s %9s %9s %9s  %s", "ID", "X", "Y", "Z", "STATE"))

	pov := m.in.PointOfViewIndex()
	rows := m.tableRows()
	for row := 0; row < rows; row++ {
		i := m.offset + row
		if i >= len(m.last.Records) {
			break
		}
		m.putString(0, headerRows+row, w, rowStyle(m.last.Records[i], pov), formatRow(m.last.Records[i]))
	}

	m.putString(0, h-1, w, styleHelp, helpText)
	m.screen.Show()
}

func rowStyle(r swarm.Record, pov int) tcell.Style {
	switch {
	case r.ID == pov:
		return stylePov
	case !r.Active:
		return styleRetiring
	default:
		return styleText
	}
}

func formatRow(r swarm.Record) string {
	state := "active"
	if !r.Active {
		state = "retiring"
	}
	return fmt.Sprintf("%03d   %9.2f %9.2f %9.2f  %s", r.ID, r.Position[0], r.Position[1], r.Position[2], state)
}

// putString writes s at (x, y), clipped to width.
func (m *Monitor) putString(x, y, width int, style tcell.Style, s string) {
	for _, r := range s {
		if x >= width {
			return
		}
		m.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run ticks and redraws at a fixed rate until the user quits or ctx is
// cancelled. Screen events are read on a separate goroutine and handed
// over through a channel.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := m.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	m.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !m.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			m.Step()
			m.Draw()
		}
	}
}
