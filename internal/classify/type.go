package classify

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/PeteDiMarco/misc-tools/internal/model"
	"github.com/PeteDiMarco/misc-tools/internal/probe"
)

// UnrecognizedFormatError reports a probe output line that matched none of
// the known shapes. The caller treats it as "probe inconclusive": the type
// probe contributes nothing, every other probe still runs.
type UnrecognizedFormatError struct {
	Line string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized type output line: %q", e.Line)
}

// TypeClassifier turns the multi-line output of the shell's "type -a" probe
// into findings. The output may carry several entries for one name (an alias
// shadowing a builtin shadowing an executable), and function entries are
// followed by the function's body, which must be skipped as a block so its
// lines cannot be mistaken for further entries.
type TypeClassifier struct {
	Help probe.TextProbe // supplementary text for keywords and builtins
}

// Scanner states. A body-open marker line switches to inFunctionBody; a
// lone closing brace switches back.
const (
	scanning = iota
	inFunctionBody
)

// Classify parses raw "type -a" output for name. Findings come back in input
// order. Repeated identical entries produce repeated findings on purpose:
// deduplication is a display concern, not a parsing one.
func (c *TypeClassifier) Classify(ctx context.Context, name, raw string) ([]model.Finding, error) {
	var findings []model.Finding
	state := scanning

	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := sc.Text()

		if state == inFunctionBody {
			if strings.TrimRight(line, " \t") == "}" {
				state = scanning
			}
			continue
		}

		trimmed := strings.TrimRight(line, " \t")
		switch {
		case trimmed == "":
			// type -a does not emit blank lines; tolerate them anyway.

		case strings.HasSuffix(trimmed, " is a function"):
			findings = append(findings, model.Finding{
				Source:  model.SourceFunction,
				Summary: fmt.Sprintf("%s is a function.", name),
				Found:   true,
			})

		case trimmed == name+" ()":
			state = inFunctionBody

		case strings.HasSuffix(trimmed, " is a shell keyword"):
			findings = append(findings, model.Finding{
				Source:  model.SourceKeyword,
				Summary: fmt.Sprintf("%s is a shell keyword.", name),
				Detail:  c.helpText(ctx, name),
				Found:   true,
			})

		case strings.HasSuffix(trimmed, " is a shell builtin"):
			findings = append(findings, model.Finding{
				Source:  model.SourceBuiltin,
				Summary: fmt.Sprintf("%s is a shell builtin.", name),
				Detail:  c.helpText(ctx, name),
				Found:   true,
			})

		case strings.Contains(trimmed, " is aliased to "):
			findings = append(findings, model.Finding{
				Source:  model.SourceAlias,
				Summary: fmt.Sprintf("There is an alias for %s: %s", name, aliasedTo(trimmed)),
				Detail:  line,
				Found:   true,
			})

		case strings.Contains(trimmed, " is hashed ("):
			findings = append(findings, model.Finding{
				Source:  model.SourceExecutable,
				Summary: fmt.Sprintf("%s is hashed; run 'hash -r' to clear the shell's command hash table.", name),
				Detail:  line,
				Found:   true,
			})

		case strings.HasPrefix(trimmed, name+" is ") && len(trimmed) > len(name)+4:
			findings = append(findings, model.Finding{
				Source:  model.SourceExecutable,
				Summary: fmt.Sprintf("%s is the executable %s.", name, trimmed[len(name)+4:]),
				Found:   true,
			})

		default:
			return nil, &UnrecognizedFormatError{Line: line}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return findings, nil
}

func (c *TypeClassifier) helpText(ctx context.Context, name string) string {
	if c.Help == nil {
		return ""
	}
	out, code, err := c.Help.Invoke(ctx, name)
	if err != nil || code != 0 {
		return ""
	}
	return strings.TrimRight(out, "\n")
}

// aliasedTo extracts the replacement text from a "NAME is aliased to `TEXT'"
// line, dropping the quote pair the shell wraps it in.
func aliasedTo(line string) string {
	i := strings.Index(line, " is aliased to ")
	s := line[i+len(" is aliased to "):]
	s = strings.TrimPrefix(s, "`")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}
