// Package columns rearranges side-by-side text columns into a single
// sequential column.
package columns

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseStarts parses a comma-separated list of 1-counted column start
// positions into 0-based offsets.
func ParseStarts(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, errors.New("enter a list of 1 or more column numbers separated by commas")
	}
	var starts []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad column number %q", part)
		}
		if n < 1 {
			return nil, errors.New("column number must be greater than 0")
		}
		starts = append(starts, n-1)
	}
	return starts, nil
}

// Reflow reads columnar text from in and writes each column in turn to out.
// starts holds the 0-based offset where each column begins; a leading 0 is
// implied, and the final column runs to the end of each line. Cells keep
// their padding. Tabs are expanded to tabSize-aligned spaces first.
func Reflow(in io.Reader, out io.Writer, starts []int, tabSize int) error {
	if len(starts) == 0 {
		return errors.New("no column start positions given")
	}
	if starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}

	buffers := make([][]string, len(starts))

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := expandTabs([]rune(sc.Text()), tabSize)
		for i := range buffers {
			start := starts[i]
			end := len(line)
			if i+1 < len(starts) {
				end = starts[i+1]
			}
			if start > len(line) {
				start = len(line)
			}
			if end > len(line) {
				end = len(line)
			}
			if end < start {
				end = start
			}
			buffers[i] = append(buffers[i], string(line[start:end]))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	for _, cells := range buffers {
		for _, cell := range cells {
			bw.WriteString(cell)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// expandTabs replaces each tab with spaces up to the next multiple of
// tabSize, counting characters from the start of the line. A tabSize of
// zero or less drops tabs entirely.
func expandTabs(line []rune, tabSize int) []rune {
	hasTab := false
	for _, r := range line {
		if r == '\t' {
			hasTab = true
			break
		}
	}
	if !hasTab {
		return line
	}

	out := make([]rune, 0, len(line))
	col := 0
	for _, r := range line {
		if r == '\t' {
			if tabSize <= 0 {
				continue
			}
			pad := tabSize - col%tabSize
			for range pad {
				out = append(out, ' ')
			}
			col += pad
			continue
		}
		out = append(out, r)
		col++
	}
	return out
}
