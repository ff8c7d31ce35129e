package index

import (
	"bufio"
	"context"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

// ProcessIndex is the run-scoped snapshot of running process names,
// deduplicated and sorted. Processes started or stopped after the snapshot
// are invisible for the rest of the run.
type ProcessIndex struct {
	names []string
}

// BuildProcessIndex snapshots the process table through the ps probe. A
// failed snapshot is recorded here once and yields an index that never
// matches; queries are not the place to re-report it.
func BuildProcessIndex(ctx context.Context, ps probe.TextProbe, logger *log.Logger) *ProcessIndex {
	out, code, err := ps.Invoke(ctx, "")
	if err != nil || code != 0 {
		logger.Warn("process snapshot unavailable", "exit", code, "err", err)
		return &ProcessIndex{}
	}

	seen := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if tok := processToken(sc.Text()); tok != "" {
			seen[tok] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	logger.Debug("process snapshot built", "processes", len(names))
	return &ProcessIndex{names: names}
}

// processToken extracts the program token from one ps command line. Kernel
// threads appear as "[kworker/0:1]" and contribute the bracketed token
// verbatim; every other line contributes the basename of its first
// whitespace-delimited word.
func processToken(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	if strings.HasPrefix(line, "[") {
		if end := strings.IndexByte(line, ']'); end > 1 {
			return line[1:end]
		}
	}
	first := line
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		first = line[:i]
	}
	return path.Base(first)
}

// Contains reports whether name exactly matches a snapshotted process name.
func (p *ProcessIndex) Contains(name string) bool {
	i := sort.SearchStrings(p.names, name)
	return i < len(p.names) && p.names[i] == name
}

// Len returns the number of distinct process names in the snapshot.
func (p *ProcessIndex) Len() int {
	return len(p.names)
}
