package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pixelmorph/internal/drawsolver"
	"github.com/san-kum/pixelmorph/internal/imagekernel"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff00")).Bold(true)
	strokeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
)

// solverMsg wraps a drawsolver.Message so it can travel through Bubble
// Tea's Msg channel alongside key/tick events.
type solverMsg drawsolver.Message

type solverClosedMsg struct{}

// DrawModel lets the user paint strokes over the grid while a background
// drawsolver session keeps refining the assignment to honor them.
type DrawModel struct {
	side          int
	cursor        int
	currentStroke int
	strokeID      []int
	assignments   []int

	canvas *Canvas

	out       <-chan drawsolver.Message
	controlCh chan drawsolver.Control
	cancel    context.CancelFunc
	sessionID int

	pending   []drawsolver.Edit
	tick      int
	updates   int
	showHelp  bool
}

// NewDrawModel starts a drawsolver session seeded from initialAssignments
// and returns a model that paints strokes into it.
func NewDrawModel(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings drawsolver.Settings, initialAssignments []int, sessionID int) DrawModel {
	runCtx, cancel := context.WithCancel(ctx)
	controlCh := make(chan drawsolver.Control, 4)
	out := drawsolver.Solve(runCtx, source, target, weights, settings, initialAssignments, controlCh, sessionID)

	side := settings.SideLen
	assignments := make([]int, len(initialAssignments))
	copy(assignments, initialAssignments)

	return DrawModel{
		side:          side,
		currentStroke: 1,
		strokeID:      make([]int, side*side),
		assignments:   assignments,
		canvas:        NewCanvas(playWidth, playHeight),
		out:           out,
		controlCh:     controlCh,
		cancel:        cancel,
		sessionID:     sessionID,
	}
}

func waitForSolverMsg(out <-chan drawsolver.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-out
		if !ok {
			return solverClosedMsg{}
		}
		return solverMsg(msg)
	}
}

func (m DrawModel) Init() tea.Cmd {
	return waitForSolverMsg(m.out)
}

func (m DrawModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "left", "h":
			if m.cursor%m.side > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor%m.side < m.side-1 {
				m.cursor++
			}
		case "up", "k":
			if m.cursor >= m.side {
				m.cursor -= m.side
			}
		case "down", "j":
			if m.cursor < m.side*(m.side-1) {
				m.cursor += m.side
			}
		case "tab":
			m.currentStroke = m.currentStroke%4 + 1
		case " ":
			m.strokeID[m.cursor] = m.currentStroke
			m.pending = append(m.pending, drawsolver.Edit{
				Position:   m.cursor,
				StrokeID:   m.currentStroke,
				LastEdited: -m.tick,
			})
			m.tick++
			m.flushEdits()
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case solverMsg:
		switch msg.Type {
		case drawsolver.MsgAssignmentsUpdate:
			m.assignments = msg.Assignments
			m.updates++
			return m, waitForSolverMsg(m.out)
		case drawsolver.MsgCancelled, drawsolver.MsgError:
			return m, tea.Quit
		}
		return m, waitForSolverMsg(m.out)
	case solverClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *DrawModel) flushEdits() {
	if len(m.pending) == 0 {
		return
	}
	select {
	case m.controlCh <- drawsolver.Control{Edits: m.pending, CurrentID: m.sessionID}:
		m.pending = nil
	default:
	}
}

func (m *DrawModel) draw() {
	m.canvas.Clear()
	cw := m.canvas.Width * 2
	scale := float64(cw) / float64(m.side)
	for i, strokeID := range m.strokeID {
		if strokeID == 0 {
			continue
		}
		x, y := i%m.side, i/m.side
		m.canvas.Set(int(float64(x)*scale), int(float64(y)*scale))
	}
	cx, cy := m.cursor%m.side, m.cursor/m.side
	m.canvas.Set(int(float64(cx)*scale), int(float64(cy)*scale))
}

func (m DrawModel) View() string {
	m.draw()
	var s strings.Builder
	s.WriteString(headerStyle.Render("DRAW MODE") + "\n")
	s.WriteString(fmt.Sprintf("Stroke %s  Updates %d\n\n",
		strokeStyle.Render(fmt.Sprintf("#%d", m.currentStroke)), m.updates))
	s.WriteString(labelStyle.Render("Cursor") + valueStyle.Render(fmt.Sprintf("(%d,%d)", m.cursor%m.side, m.cursor/m.side)) + "\n")
	s.WriteString(labelStyle.Render("Pending") + valueStyle.Render(fmt.Sprintf("%d", len(m.pending))) + "\n")
	s.WriteString(helpStyle.Render("\n─────────────────\nArrows:Move Space:Paint\nTab:Stroke  Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return "\n  DRAW MODE\n  Arrows  move the paint cursor\n  Space   paint the current stroke\n  Tab     cycle stroke id\n  Q       quit\n\n" + mainView
	}
	return mainView
}

// Assignments reports the permutation in force when the draw session ends.
func (m DrawModel) Assignments() []int { return m.assignments }

func RunDraw(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings drawsolver.Settings, initialAssignments []int, sessionID int) ([]int, error) {
	model := NewDrawModel(ctx, source, target, weights, settings, initialAssignments, sessionID)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(DrawModel).Assignments(), nil
}
