package model

import "strings"

// AttributeSet is an ordered set of attribute labels attached to a declared
// name (read-only, exported, ...). Labels keep the order in which they were
// added; adding a label twice keeps only the first occurrence.
type AttributeSet struct {
	labels []string
}

// Add appends a label unless it is already present.
func (s *AttributeSet) Add(label string) {
	for _, l := range s.labels {
		if l == label {
			return
		}
	}
	s.labels = append(s.labels, label)
}

// Empty reports whether no labels were added.
func (s *AttributeSet) Empty() bool {
	return len(s.labels) == 0
}

// Labels returns the labels in insertion order.
func (s *AttributeSet) Labels() []string {
	return s.labels
}

// String renders the set as a comma-separated list, e.g. "read-only, exported".
func (s *AttributeSet) String() string {
	return strings.Join(s.labels, ", ")
}
