package tui

import (
	"time"

	"github.com/PeteDiMarco/misc-tools/internal/alias"
	"github.com/PeteDiMarco/misc-tools/internal/resolve"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Options configures the interactive session.
type Options struct {
	Aliases       alias.Table
	SkipProcesses bool
	SkipPackages  bool
	Timeout       time.Duration
	Log           *log.Logger
}

// lookupResult is a rendered report kept in the lookup cache.
type lookupResult struct {
	Text  string
	Found bool
}

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Opts     Options
	Resolver *resolve.Resolver
	Loading  bool
	Busy     bool
	Err      error

	// UI State
	CurrentName string
	PendingName string
	Found       bool
	WindowSize  tea.WindowSizeMsg

	// Components
	Input   textinput.Model
	Report  viewport.Model
	Spinner spinner.Model

	lookups *lru.Cache[string, lookupResult]
}

// InitialModel returns the initial state.
func InitialModel(opts Options) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Token name..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	lookups, _ := lru.New[string, lookupResult](128)

	return AppModel{
		Opts:    opts,
		Loading: true,
		Input:   ti,
		Spinner: sp,
		lookups: lookups,
	}
}
