package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hepv-lab/hepvsim/internal/sim"
)

const (
	liveWidth    = 70
	liveHeight   = 8
	stepsPerTick = 4
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pneuStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model plays back a finished dual-source run step by step.
type Model struct {
	result   *sim.Result
	playHead int
	running  bool
	title    string
}

func NewModel(result *sim.Result, title string) Model {
	return Model{
		result:  result,
		running: true,
		title:   title,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
			m.running = true
		case "[":
			m.scrub(-10)
		case "]":
			m.scrub(10)
		}
	case TickMsg:
		if m.running {
			m.playHead += stepsPerTick
			if m.playHead >= m.result.Steps() {
				m.playHead = m.result.Steps() - 1
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) scrub(delta int) {
	m.running = false
	m.playHead += delta
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= m.result.Steps() {
		m.playHead = m.result.Steps() - 1
	}
}

func (m Model) View() string {
	r := m.result
	k := m.playHead

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := "PLAYING"
	if !m.running {
		if k == r.Steps()-1 {
			status = "FINISHED"
		} else {
			status = "PAUSED"
		}
	}
	s.WriteString(fmt.Sprintf("%s  t=%.1fs / %.1fs\n\n", status, r.Times[k], r.Times[r.Steps()-1]))

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("speed", fmt.Sprintf("%.1f km/h", r.SpeedsKmh[k]))
	row("demand", fmt.Sprintf("%.0f W", r.Demand[k]))
	row("electric", fmt.Sprintf("%.0f W", r.Electric[k]))
	if r.Pneumatic[k] > 0 {
		s.WriteString(labelStyle.Render("pneumatic") + pneuStyle.Render(fmt.Sprintf("%.0f W  ACTIVE", r.Pneumatic[k])) + "\n")
	} else {
		row("pneumatic", fmt.Sprintf("%.0f W", r.Pneumatic[k]))
	}
	row("battery SoC", fmt.Sprintf("%.2f %%", r.SoC[k]*100))
	if len(r.TankPressureBar) > 0 {
		row("tank", fmt.Sprintf("%.1f bar  %.1f C  %.3f kg", r.TankPressureBar[k], r.TankTempC[k], r.TankMassKg[k]))
	}

	socHist := windowed(r.SoC, k, liveWidth)
	s.WriteString(graphStyle.Render(asciigraph.Plot(scale(socHist, 100),
		asciigraph.Height(liveHeight),
		asciigraph.Width(liveWidth),
		asciigraph.Caption("SoC %"))))
	s.WriteString("\n")

	if len(r.TankPressureBar) > 0 {
		barHist := windowed(r.TankPressureBar, k, liveWidth)
		s.WriteString(graphStyle.Render(asciigraph.Plot(barHist,
			asciigraph.Height(liveHeight),
			asciigraph.Width(liveWidth),
			asciigraph.Caption("tank pressure (bar)"))))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("space: pause  r: restart  [ ]: scrub  q: quit"))
	return s.String()
}

// windowed returns the trailing window of data up to and including index k,
// at most width points long.
func windowed(data []float64, k, width int) []float64 {
	hist := data[:k+1]
	if len(hist) > width {
		hist = hist[len(hist)-width:]
	}
	return hist
}
