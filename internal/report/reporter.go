package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/PeteDiMarco/misc-tools/internal/model"
)

// Reporter renders reports as line-oriented text: one summary line per
// finding, detail lines indented beneath it. Byte-identical findings print
// once; the raw stream stays visible through debug tracing. Resolving keeps
// every duplicate on purpose, so the display layer is the only place that
// collapses them.
type Reporter struct {
	W   io.Writer
	Log *log.Logger

	wrote bool
}

// New builds a Reporter writing to w.
func New(w io.Writer, logger *log.Logger) *Reporter {
	return &Reporter{W: w, Log: logger}
}

// Print renders one report and returns its found verdict. Consecutive
// reports are separated by exactly one blank line.
func (r *Reporter) Print(rep model.Report) bool {
	if r.wrote {
		fmt.Fprintln(r.W)
	}
	r.wrote = true

	seen := make(map[model.Finding]struct{}, len(rep.Findings))
	for _, f := range rep.Findings {
		r.Log.Debug("finding", "name", rep.Name, "source", f.Source, "summary", f.Summary, "found", f.Found)
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}

		fmt.Fprintln(r.W, f.Summary)
		if f.Detail != "" {
			for _, line := range strings.Split(f.Detail, "\n") {
				fmt.Fprintf(r.W, "    %s\n", line)
			}
		}
	}
	return rep.Found()
}

// PrintAll renders a batch of reports and reports whether every name was
// found.
func (r *Reporter) PrintAll(reps []model.Report) bool {
	all := true
	for _, rep := range reps {
		if !r.Print(rep) {
			all = false
		}
	}
	return all
}

// Render returns one report's text, as Print would emit it, without debug
// tracing. The interactive and web front ends display reports through this.
func Render(rep model.Report) string {
	var sb strings.Builder
	rendered := New(&sb, log.New(io.Discard))
	rendered.Print(rep)
	return sb.String()
}
