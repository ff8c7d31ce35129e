package probe

import "github.com/charmbracelet/log"

// Catalog bundles the probes the resolver consults for every candidate name.
// Each entry is a TextProbe so tests can swap in fakes field by field.
type Catalog struct {
	Type      TextProbe // every binding of the name, "type -a" style
	Declare   TextProbe // declared attributes, "declare -p" style
	Function  TextProbe // declared-as-function check, "declare -F" style
	Help      TextProbe // detailed help text for keywords and builtins
	LiveAlias TextProbe // the live shell's alias table
	File      TextProbe // file type description
	Which     TextProbe // every matching executable on PATH
	Man       TextProbe // man page lookup
	Info      TextProbe // info page lookup
	Processes TextProbe // process table snapshot, name ignored
}

// DefaultCatalog wires the real system probes. The shell-backed probes hand
// the name over as "$1" so names never pass through shell parsing.
func DefaultCatalog(logger *log.Logger) *Catalog {
	return &Catalog{
		Type:      NewCommand(logger, "bash", "-c", `type -a -- "$1"`, "bash"),
		Declare:   NewCommand(logger, "bash", "-c", `declare -p -- "$1"`, "bash"),
		Function:  NewCommand(logger, "bash", "-c", `declare -F -- "$1"`, "bash"),
		Help:      NewCommand(logger, "bash", "-c", `help -- "$1"`, "bash"),
		LiveAlias: NewCommand(logger, "bash", "-ic", `alias -- "$1"`, "bash"),
		File:      NewCommand(logger, "file", "-b", "--"),
		Which:     NewCommand(logger, "which", "-a"),
		Man:       NewCommand(logger, "man", "-f"),
		Info:      NewCommand(logger, "info", "-w"),
		Processes: NewListing(logger, "ps", "-eo", "args="),
	}
}
