package model

import "fmt"

// Source identifies the kind of information source a finding came from.
type Source string

const (
	SourceVariable     Source = "variable"
	SourceFunction     Source = "function"
	SourceKeyword      Source = "keyword"
	SourceBuiltin      Source = "builtin"
	SourceAlias        Source = "alias"
	SourceExecutable   Source = "executable"
	SourceFile         Source = "file"
	SourceManPage      Source = "man-page"
	SourceInfoPage     Source = "info-page"
	SourceProcess      Source = "process"
	SourcePackage      Source = "package"
	SourceDeclaredAttr Source = "declared-attr"
	SourceNone         Source = "none"
)

// Finding is one fact discovered about a candidate name from one source.
// It is immutable once created: adaptors build findings, the reporter
// consumes them, nothing modifies them in between.
type Finding struct {
	Source  Source `json:"source"`
	Summary string `json:"summary"`
	Detail  string `json:"detail,omitempty"`
	Found   bool   `json:"found"`
}

// Report collects every finding produced for one candidate name.
type Report struct {
	Name     string    `json:"name"`
	Findings []Finding `json:"findings"`
}

// Found reports whether any real finding was produced for the name.
func (r Report) Found() bool {
	for _, f := range r.Findings {
		if f.Found {
			return true
		}
	}
	return false
}

// NothingFound builds the synthetic report used when every probe came up
// empty for a name.
func NothingFound(name string) Report {
	return Report{
		Name: name,
		Findings: []Finding{{
			Source:  SourceNone,
			Summary: fmt.Sprintf("Nothing found for %q.", name),
			Found:   false,
		}},
	}
}
