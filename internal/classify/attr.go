package classify

import (
	"fmt"
	"strings"

	"github.com/PeteDiMarco/misc-tools/internal/model"
)

// attrLabels is the closed mapping of declare's single-letter attribute
// codes. "--" in declare output means a plain shell variable, so '-' maps
// like any other code.
var attrLabels = map[byte]string{
	'-': "shell variable",
	'a': "indexed array",
	'A': "associative array",
	'i': "integer",
	'r': "read-only",
	'x': "exported",
}

// AttributeClassifier parses the output of the "declare -p" probe for one
// name. It is the fallback used when the type probe reports no binding at
// all; the separate declared-as-function check runs independently of it.
type AttributeClassifier struct{}

// Classify parses raw "declare -p" output for name. Empty or unparseable
// output means the name is not declared and yields no findings. Unknown
// attribute codes are surfaced as explicit findings, never dropped.
func (c *AttributeClassifier) Classify(name, raw string) []model.Finding {
	// declare -p prints exactly one binding, spanning several lines when
	// the value itself contains newlines. Parse the whole thing.
	binding := strings.Trim(raw, " \t\n")
	rest, ok := strings.CutPrefix(binding, "declare -")
	if !ok {
		return nil
	}

	codes := rest
	value := ""
	hasValue := false
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		codes = rest[:i]
		if eq := strings.IndexByte(rest[i+1:], '='); eq >= 0 {
			value = unquoteDeclared(rest[i+1+eq+1:])
			hasValue = true
		}
	}

	var findings []model.Finding
	var attrs model.AttributeSet
	for j := 0; j < len(codes); j++ {
		code := codes[j]
		label, known := attrLabels[code]
		if !known {
			findings = append(findings, model.Finding{
				Source:  model.SourceDeclaredAttr,
				Summary: fmt.Sprintf("%s is declared with an unknown attribute code %q.", name, string(code)),
				Found:   true,
			})
			continue
		}
		attrs.Add(label)
	}

	if !attrs.Empty() {
		f := model.Finding{
			Source:  model.SourceDeclaredAttr,
			Summary: fmt.Sprintf("%s is declared with attributes: %s.", name, attrs.String()),
			Found:   true,
		}
		if hasValue {
			f.Detail = fmt.Sprintf("Its value is '%s'.", value)
		}
		findings = append(findings, f)
	}
	return findings
}

// unquoteDeclared strips the double quotes declare -p wraps plain values in.
// Array values keep their raw "(...)" form.
func unquoteDeclared(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
