package alias

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"github.com/PeteDiMarco/misc-tools/internal/model"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

// Table maps alias names to their replacement text. It is parsed once from
// an external stream of `alias NAME=VALUE` lines and read-only afterwards.
type Table map[string]string

// ParseTable reads alias definitions, one per line. Lines that do not look
// like `alias NAME=VALUE` are skipped with a debug note. Replacement text is
// unquoted with shell word-splitting rules; when that fails (unbalanced
// quotes and the like) the raw text is kept as-is. The last definition of a
// name wins, matching how a shell would process the same stream.
func ParseTable(r io.Reader, logger *log.Logger) (Table, error) {
	table := make(Table)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rest, ok := strings.CutPrefix(line, "alias ")
		if !ok {
			logger.Debug("skipping non-alias line", "line", line)
			continue
		}
		name, value, ok := strings.Cut(strings.TrimSpace(rest), "=")
		if !ok || name == "" {
			logger.Debug("skipping malformed alias line", "line", line)
			continue
		}
		table[name] = unquote(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading alias table: %w", err)
	}
	return table, nil
}

// unquote resolves shell quoting in an alias replacement, so `'ls -la'`
// becomes `ls -la`.
func unquote(value string) string {
	fields, err := shell.Fields(value, os.Getenv)
	if err != nil || len(fields) == 0 {
		return value
	}
	return strings.Join(fields, " ")
}

// Resolver reports alias findings from two independent sources: the live
// shell and the externally supplied table. The two are never merged into one
// finding; a name aliased in both yields two findings, disagreement and all.
// Names match by exact string equality.
type Resolver struct {
	Live  probe.TextProbe
	Table Table
}

// Resolve returns zero, one, or two alias findings for name.
func (r *Resolver) Resolve(ctx context.Context, name string) []model.Finding {
	var findings []model.Finding

	if r.Live != nil {
		out, code, err := r.Live.Invoke(ctx, name)
		if err == nil && code == 0 && strings.TrimSpace(out) != "" {
			findings = append(findings, model.Finding{
				Source:  model.SourceAlias,
				Summary: fmt.Sprintf("There is an alias for %s: %s", name, liveValue(out)),
				Detail:  strings.TrimRight(out, "\n"),
				Found:   true,
			})
		}
	}

	if value, ok := r.Table[name]; ok {
		findings = append(findings, model.Finding{
			Source:  model.SourceAlias,
			Summary: fmt.Sprintf("There is an alias for %s in the supplied alias list: %s", name, value),
			Found:   true,
		})
	}

	return findings
}

// liveValue extracts the replacement text from the shell's
// `alias NAME='VALUE'` output, falling back to the raw line.
func liveValue(out string) string {
	line := strings.TrimSpace(out)
	if _, after, ok := strings.Cut(line, "="); ok {
		return strings.Trim(after, "'")
	}
	return line
}
