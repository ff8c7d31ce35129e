package fileutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
	}
	return path
}

// Confirm asks a yes/no question on the terminal. An empty answer counts as
// yes; anything not starting with y or n re-prompts.
func Confirm(question string) bool {
	return confirm(question, os.Stdin, os.Stdout)
}

func confirm(question string, in io.Reader, out io.Writer) bool {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s ", question)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		switch {
		case answer == "" || answer[0] == 'y':
			return true
		case answer[0] == 'n':
			return false
		}
		fmt.Fprintln(out, `Please enter "yes" or "no".`)
		fmt.Fprintln(out, `Just pressing <Enter> is assumed to mean "yes".`)
	}
}

// OpenInput opens path for reading; empty or "-" means stdin.
func OpenInput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	return os.Open(ExpandTilde(path))
}

// OpenOutput opens path for writing; empty or "-" means stdout. Overwriting
// an existing file needs either force or an interactive confirmation.
func OpenOutput(path string, force bool) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}
	path = ExpandTilde(path)
	if _, err := os.Stat(path); err == nil && !force {
		if !Confirm(fmt.Sprintf("Overwrite existing %s?", path)) {
			return nil, fmt.Errorf("will not overwrite output file %s", path)
		}
	}
	return os.Create(path)
}

// CloseQuietly closes f unless it is one of the standard streams.
func CloseQuietly(f *os.File) {
	if f == nil || f == os.Stdin || f == os.Stdout || f == os.Stderr {
		return
	}
	f.Close()
}
