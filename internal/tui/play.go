package tui

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pixelmorph/internal/compute"
	"github.com/san-kum/pixelmorph/internal/metrics"
	"github.com/san-kum/pixelmorph/internal/morph"
)

const (
	playWidth       = 80
	playHeight      = 24
	historyCapacity = 600
)

type TickMsg time.Time

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

// PlayModel drives the "watch it settle" view: a live morph.Simulation
// stepped at 60Hz and rendered onto a braille canvas.
type PlayModel struct {
	sim       *morph.Simulation
	name      string
	canvas    *Canvas
	running   bool
	reversed  bool
	frame     int
	settling  *metrics.SettlingDistance
	history   []float64
	recording bool
	frames    []*image.Paletted
	showHelp  bool
}

func NewPlayModel(sim *morph.Simulation, name string) PlayModel {
	return PlayModel{
		sim:      sim,
		name:     name,
		canvas:   NewCanvas(playWidth, playHeight),
		running:  true,
		reversed: sim.Reversed,
		settling: metrics.NewSettlingDistance(),
		history:  make([]float64, 0, historyCapacity),
	}
}

func (m PlayModel) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.PreparePlay(m.reversed)
			m.frame = 0
			m.history = m.history[:0]
			m.settling.Reset()
		case "v":
			m.reversed = !m.reversed
			m.sim.PreparePlay(m.reversed)
			m.frame = 0
			m.history = m.history[:0]
			m.settling.Reset()
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case TickMsg:
		if m.running {
			m.sim.Step()
			m.settling.Observe(m.sim)
			m.history = append(m.history, m.settling.Value())
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
			m.frame++
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *PlayModel) draw() {
	m.canvas.Clear()
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	scale := float64(cw) / float64(m.sim.Side)
	for _, pos := range m.sim.Positions {
		x := int(pos.X * scale)
		y := int(pos.Y * scale * (float64(ch) / float64(cw)))
		m.canvas.Set(x, y)
	}
}

func (m PlayModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.reversed {
		status += " (reverse)"
	}
	if m.recording {
		status = StatusRecording.Render("● RECORDING") + " " + status
	}
	s.WriteString(status + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Settling distance"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.frame)) + "\n")
	s.WriteString(labelStyle.Render("Settling") + valueStyle.Render(fmt.Sprintf("%.2fpx", m.settling.Value())) + "\n")
	backend := compute.GetBackend()
	s.WriteString(labelStyle.Render("Backend") + valueStyle.Render(backend.Name()) + "\n")
	s.WriteString(helpStyle.Render("\n─────────────────\nSP:Pause R:Restart V:Reverse\nT:Theme  G:Record  ?:Help  Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return "\n  PLAY MODE\n  Space  pause/resume\n  R      restart current direction\n  V      reverse direction\n  T      cycle theme\n  G      toggle GIF recording\n  Q      quit\n\n" + mainView
	}
	return mainView
}

func (m *PlayModel) captureFrame() {
	cw, ch := m.canvas.Width, m.canvas.Height
	img := image.NewPaletted(image.Rect(0, 0, cw*8, ch*8), []color.Color{color.Black, color.White})
	for row, line := range m.canvas.Grid {
		for col, r := range line {
			if r == 0x2800 {
				continue
			}
			for py := 0; py < 8; py++ {
				for px := 0; px < 8; px++ {
					img.SetColorIndex(col*8+px, row*8+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *PlayModel) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	f, err := os.Create(fmt.Sprintf("%s-play.gif", m.name))
	if err != nil {
		return
	}
	defer f.Close()

	g := &gif.GIF{}
	for _, frame := range m.frames {
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 2)
	}
	gif.EncodeAll(f, g)
}

func RunPlay(sim *morph.Simulation, name string) error {
	_, err := tea.NewProgram(NewPlayModel(sim, name), tea.WithAltScreen()).Run()
	return err
}
