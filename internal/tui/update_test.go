package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeteDiMarco/misc-tools/internal/index"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
	"github.com/PeteDiMarco/misc-tools/internal/resolve"
)

func testModel() AppModel {
	return InitialModel(Options{
		Timeout: time.Second,
		Log:     log.New(io.Discard),
	})
}

// emptyResolver wires a resolver over skipped indexes; good enough for
// state-machine tests that never run the returned command.
func emptyResolver() *resolve.Resolver {
	logger := log.New(io.Discard)
	cache := index.Build(context.Background(), nil, index.Options{
		SkipProcesses: true,
		SkipPackages:  true,
	}, logger)
	return resolve.New(&probe.Catalog{}, cache, nil, logger)
}

func TestEnterWhileLoadingIsIgnored(t *testing.T) {
	m := testModel()
	require.True(t, m.Loading)

	m.Input.SetValue("ls")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, next.(AppModel).Busy)
}

func TestEnterAfterEngineErrorIsIgnored(t *testing.T) {
	m := testModel()

	next, _ := m.Update(MsgError(errors.New("cannot find bash on PATH")))
	am := next.(AppModel)
	require.False(t, am.Loading)
	require.False(t, am.Busy)
	require.Error(t, am.Err)
	require.Nil(t, am.Resolver)

	// A lookup without an engine would dereference a nil resolver in the
	// background command.
	am.Input.SetValue("ls")
	next, cmd := am.Update(tea.KeyMsg{Type: tea.KeyEnter})
	am = next.(AppModel)

	assert.Nil(t, cmd)
	assert.False(t, am.Busy)
	assert.Empty(t, am.PendingName)
}

func TestEnterWithEngineStartsLookup(t *testing.T) {
	m := testModel()

	next, _ := m.Update(MsgEngineReady{Resolver: emptyResolver()})
	am := next.(AppModel)
	require.False(t, am.Loading)

	am.Input.SetValue("ls")
	next, cmd := am.Update(tea.KeyMsg{Type: tea.KeyEnter})
	am = next.(AppModel)

	assert.NotNil(t, cmd)
	assert.True(t, am.Busy)
	assert.Equal(t, "ls", am.PendingName)
}
