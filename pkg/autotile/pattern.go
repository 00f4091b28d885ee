// Package autotile picks the frame of a tile from the tiles around it by
// matching the 3x3 neighbourhood against ordered pattern tables.
package autotile

import (
	"errors"
	"fmt"
)

// Template cell values.
const (
	Absent   uint8 = 0
	Present  uint8 = 1
	Wildcard uint8 = 2
)

const (
	// PatternSize is the number of cells in a 3x3 neighbourhood.
	PatternSize = 9
	// centerIndex is never compared; it is the tile being resolved.
	centerIndex = 4
	// DefaultResult is returned when no template matches.
	DefaultResult = 7
)

var ErrPatternSize = errors.New("neighbourhood must have 9 cells")

// Template is a 3x3 neighbourhood in row-major order.
type Template [PatternSize]uint8

// Matches reports whether arr fits the template, ignoring the centre.
func (t Template) Matches(arr []bool) bool {
	for i, v := range t {
		if i == centerIndex || v == Wildcard {
			continue
		}
		if (v == Present) != arr[i] {
			return false
		}
	}
	return true
}

// Rule maps one template to a result frame.
type Rule struct {
	Result   int
	Template Template
}

// Entry groups every template producing Result.
type Entry struct {
	Result    int
	Templates []Template
}

// Library is an ordered pattern table. Entries keep the order in which
// their result first appeared; templates keep insertion order within it.
type Library struct {
	Name    string
	entries []Entry
	index   map[int]int
}

// NewLibrary builds a library from rules in order.
func NewLibrary(name string, rules ...Rule) *Library {
	l := &Library{Name: name, index: make(map[int]int)}
	for _, r := range rules {
		l.Add(r.Result, r.Template)
	}
	return l
}

// Add appends a template for result.
func (l *Library) Add(result int, t Template) {
	i, ok := l.index[result]
	if !ok {
		i = len(l.entries)
		l.index[result] = i
		l.entries = append(l.entries, Entry{Result: result})
	}
	l.entries[i].Templates = append(l.entries[i].Templates, t)
}

// Entries returns the grouped entries in match order.
func (l *Library) Entries() []Entry { return l.entries }

// Len returns the total number of templates.
func (l *Library) Len() int {
	n := 0
	for _, e := range l.entries {
		n += len(e.Templates)
	}
	return n
}

// Match returns the result of the first template matching arr, or def.
func (l *Library) Match(arr []bool, def int) (int, error) {
	if len(arr) != PatternSize {
		return def, fmt.Errorf("%w: got %d", ErrPatternSize, len(arr))
	}
	for _, e := range l.entries {
		for _, t := range e.Templates {
			if t.Matches(arr) {
				return e.Result, nil
			}
		}
	}
	return def, nil
}
