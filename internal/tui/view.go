package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PeteDiMarco/misc-tools/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // Pinkish
			Bold(true)

	foundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")) // Green

	notFoundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	reportStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m AppModel) View() string {
	if m.Loading {
		return fmt.Sprintf("\n  %s Building process and package indexes... please wait.\n", m.Spinner.View())
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}

	width := m.WindowSize.Width - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("whatis-token"))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Token: "))
	b.WriteString(m.Input.View())
	b.WriteString("\n\n")

	switch {
	case m.Busy:
		b.WriteString(fmt.Sprintf(" %s Asking the system about %s...\n", m.Spinner.View(), m.PendingName))
	case m.CurrentName != "":
		status := foundStyle.Render(model.IconFound + " found")
		if !m.Found {
			status = notFoundStyle.Render(model.IconMissing + " nothing found")
		}
		b.WriteString(fmt.Sprintf(" %s: %s\n", m.CurrentName, status))
		b.WriteString(reportStyle.Width(width).Render(m.Report.View()))
		b.WriteString("\n")
	default:
		b.WriteString(helpStyle.Render("  Type a name and press Enter to find out what it is."))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("\nHelp: Enter: Look up • ↑/↓: Scroll • Esc: Clear • Ctrl+C: Quit"))
	return b.String()
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick, InitEngineCmd(m.Opts))
}
