package tui

import (
	"context"
	"strings"

	"github.com/PeteDiMarco/misc-tools/internal/index"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
	"github.com/PeteDiMarco/misc-tools/internal/report"
	"github.com/PeteDiMarco/misc-tools/internal/resolve"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgEngineReady indicates that the token indexes are built and lookups
// can start.
type MsgEngineReady struct {
	Resolver *resolve.Resolver
}

// MsgReportReady carries the rendered report for one token.
type MsgReportReady struct {
	Name  string
	Text  string
	Found bool
}

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.Report.Width = msg.Width - 4
		m.Report.Height = msg.Height - 8 // minus title, prompt, status, footer
		if m.Report.Height < 3 {
			m.Report.Height = 3
		}
		return m, nil

	case MsgEngineReady:
		m.Loading = false
		m.Resolver = msg.Resolver
		return m, nil

	case MsgReportReady:
		m.Busy = false
		m.PendingName = ""
		m.CurrentName = msg.Name
		m.Found = msg.Found
		m.lookups.Add(msg.Name, lookupResult{Text: msg.Text, Found: msg.Found})
		m.Report.SetContent(msg.Text)
		m.Report.GotoTop()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		m.Busy = false
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.Input.SetValue("")
			m.CurrentName = ""
			m.Report.SetContent("")
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.Input.Value())
			// Resolver stays nil when the engine failed to come up; the
			// error is already on screen.
			if name == "" || m.Loading || m.Busy || m.Resolver == nil {
				return m, nil
			}
			if res, ok := m.lookups.Get(name); ok {
				m.CurrentName = name
				m.Found = res.Found
				m.Report.SetContent(res.Text)
				m.Report.GotoTop()
				return m, nil
			}
			m.Busy = true
			m.PendingName = name
			return m, lookupCmd(m.Resolver, name, m.Opts)
		case "up", "down", "pgup", "pgdown":
			m.Report, cmd = m.Report.Update(msg)
			return m, cmd
		}
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}

	return m, cmd
}

// InitEngineCmd builds the probe catalog and token indexes in background.
func InitEngineCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		if err := resolve.Preflight(); err != nil {
			return MsgError(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()

		probes := probe.DefaultCatalog(opts.Log)
		cache := index.Build(ctx, probes.Processes, index.Options{
			SkipProcesses: opts.SkipProcesses,
			SkipPackages:  opts.SkipPackages,
		}, opts.Log)
		return MsgEngineReady{Resolver: resolve.New(probes, cache, opts.Aliases, opts.Log)}
	}
}

// lookupCmd resolves one token in background and renders its report.
func lookupCmd(r *resolve.Resolver, name string, opts Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()

		rep := r.Resolve(ctx, name)
		return MsgReportReady{Name: name, Text: report.Render(rep), Found: rep.Found()}
	}
}
