package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PresetMenu lets the user pick a saved preset by name from a list,
// mirroring the model-picker menu a live session starts from.
type PresetMenu struct {
	names    []string
	cursor   int
	selected string
	quit     bool
}

func NewPresetMenu(names []string) PresetMenu {
	return PresetMenu{names: names}
}

func (m PresetMenu) Init() tea.Cmd { return nil }

func (m PresetMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.names) > 0 {
			m.selected = m.names[m.cursor]
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m PresetMenu) View() string {
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	b.WriteString("\n\n  " + h.Render("PIXELMORPH") + "\n  " + sub.Render("choose a preset") + "\n  " + sub.Render("─────────────────────") + "\n\n")

	if len(m.names) == 0 {
		b.WriteString("  " + sub.Render("(no saved presets)") + "\n")
	}
	for i, name := range m.names {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s\n", h.Render("▸"), name))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", sub.Render(name)))
		}
	}
	b.WriteString("\n  " + KeyHint.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

// RunPresetMenu shows the picker and returns the chosen preset name, or ""
// if the user quit without selecting one.
func RunPresetMenu(names []string) (string, error) {
	p := tea.NewProgram(NewPresetMenu(names))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(PresetMenu).selected, nil
}
