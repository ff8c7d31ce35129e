package report

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/PeteDiMarco/misc-tools/internal/model"
)

func testReporter() (*Reporter, *strings.Builder) {
	var sb strings.Builder
	return New(&sb, log.New(io.Discard)), &sb
}

func TestPrintDedupesIdenticalFindings(t *testing.T) {
	rep := model.Report{Name: "ls", Findings: []model.Finding{
		{Source: model.SourceExecutable, Summary: "ls is the executable /usr/bin/ls.", Found: true},
		{Source: model.SourceExecutable, Summary: "ls is the executable /usr/bin/ls.", Found: true},
		{Source: model.SourceExecutable, Summary: "ls is the executable /bin/ls.", Found: true},
	}}

	r, sb := testReporter()
	found := r.Print(rep)

	assert.True(t, found)
	assert.Equal(t,
		"ls is the executable /usr/bin/ls.\n"+
			"ls is the executable /bin/ls.\n",
		sb.String())
}

func TestPrintIndentsDetailLines(t *testing.T) {
	rep := model.Report{Name: "if", Findings: []model.Finding{
		{
			Source:  model.SourceKeyword,
			Summary: "if is a shell keyword.",
			Detail:  "if: if COMMANDS; then COMMANDS;\nExecute commands based on conditional.",
			Found:   true,
		},
	}}

	r, sb := testReporter()
	r.Print(rep)

	assert.Equal(t,
		"if is a shell keyword.\n"+
			"    if: if COMMANDS; then COMMANDS;\n"+
			"    Execute commands based on conditional.\n",
		sb.String())
}

func TestPrintAllSeparatesReportsWithOneBlankLine(t *testing.T) {
	reps := []model.Report{
		{Name: "a", Findings: []model.Finding{{Summary: "a is a shell builtin.", Found: true}}},
		{Name: "b", Findings: []model.Finding{{Summary: "b is a shell keyword.", Found: true}}},
	}

	r, sb := testReporter()
	all := r.PrintAll(reps)

	assert.True(t, all)
	assert.Equal(t,
		"a is a shell builtin.\n"+
			"\n"+
			"b is a shell keyword.\n",
		sb.String())
}

func TestPrintAllReportsMissingNames(t *testing.T) {
	reps := []model.Report{
		{Name: "cd", Findings: []model.Finding{{Summary: "cd is a shell builtin.", Found: true}}},
		model.NothingFound("frobnicate"),
	}

	r, sb := testReporter()
	all := r.PrintAll(reps)

	assert.False(t, all)
	assert.Contains(t, sb.String(), `Nothing found for "frobnicate".`)
}

func TestRender(t *testing.T) {
	rep := model.Report{Name: "cd", Findings: []model.Finding{
		{Summary: "cd is a shell builtin.", Detail: "cd: cd [dir]", Found: true},
	}}

	assert.Equal(t, "cd is a shell builtin.\n    cd: cd [dir]\n", Render(rep))
}
