package alias

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeteDiMarco/misc-tools/internal/model"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

func discard() *log.Logger {
	return log.New(io.Discard)
}

func TestParseTable(t *testing.T) {
	input := strings.Join([]string{
		"alias ll='ls -la'",
		"# saved from my laptop",
		"",
		"not an alias line",
		`alias greet="echo hi"`,
		"alias ll='ls -l --color'",
		"alias broken",
	}, "\n")

	table, err := ParseTable(strings.NewReader(input), discard())
	require.NoError(t, err)

	assert.Equal(t, Table{
		"ll":    "ls -l --color", // last definition wins
		"greet": "echo hi",
	}, table)
}

func TestParseTableKeepsRawValueOnBadQuoting(t *testing.T) {
	table, err := ParseTable(strings.NewReader("alias oops='unterminated\n"), discard())
	require.NoError(t, err)
	assert.Equal(t, "'unterminated", table["oops"])
}

func TestParseTableReadError(t *testing.T) {
	broken := iotest.ErrReader(errors.New("pipe burst"))
	_, err := ParseTable(broken, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading alias table")
}

func TestResolveReportsBothSources(t *testing.T) {
	live := probe.Func(func(ctx context.Context, name string) (string, int, error) {
		return "alias ll='ls -l'\n", 0, nil
	})
	r := &Resolver{Live: live, Table: Table{"ll": "ls -la --color"}}

	findings := r.Resolve(context.Background(), "ll")
	require.Len(t, findings, 2)

	assert.Equal(t, model.SourceAlias, findings[0].Source)
	assert.Equal(t, "There is an alias for ll: ls -l", findings[0].Summary)
	assert.Equal(t, "alias ll='ls -l'", findings[0].Detail)

	assert.Equal(t, model.SourceAlias, findings[1].Source)
	assert.Equal(t, "There is an alias for ll in the supplied alias list: ls -la --color", findings[1].Summary)
}

func TestResolveLiveOnly(t *testing.T) {
	live := probe.Func(func(ctx context.Context, name string) (string, int, error) {
		return "alias gs='git status'\n", 0, nil
	})
	r := &Resolver{Live: live}

	findings := r.Resolve(context.Background(), "gs")
	require.Len(t, findings, 1)
	assert.Equal(t, "There is an alias for gs: git status", findings[0].Summary)
}

func TestResolveTableOnly(t *testing.T) {
	live := probe.Func(func(ctx context.Context, name string) (string, int, error) {
		return "", 1, nil // shell knows no such alias
	})
	r := &Resolver{Live: live, Table: Table{"gs": "git status"}}

	findings := r.Resolve(context.Background(), "gs")
	require.Len(t, findings, 1)
	assert.Equal(t, "There is an alias for gs in the supplied alias list: git status", findings[0].Summary)
}

func TestResolveNoAliasAnywhere(t *testing.T) {
	live := probe.Func(func(ctx context.Context, name string) (string, int, error) {
		return "", 1, nil
	})
	r := &Resolver{Live: live, Table: Table{"other": "x"}}

	assert.Empty(t, r.Resolve(context.Background(), "gs"))
}

func TestResolveLiveProbeErrorContributesNothing(t *testing.T) {
	live := probe.Func(func(ctx context.Context, name string) (string, int, error) {
		return "", -1, errors.New("shell exploded")
	})
	r := &Resolver{Live: live, Table: Table{"ll": "ls -la"}}

	findings := r.Resolve(context.Background(), "ll")
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Summary, "in the supplied alias list")
}
