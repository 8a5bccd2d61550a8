package distance

import (
	"fmt"
	"sort"
	"strings"
)

// Shape is the on-disk arrangement of a distance file.
type Shape int

const (
	// Square files have a header row of sample names followed by one row per
	// sample: the sample name and then one cell per column.
	Square Shape = iota
	// Long files have one pair per line: sample, sample, distance.
	Long
)

func (s Shape) String() string {
	if s == Long {
		return "long"
	}
	return "square"
}

// Layout describes where the values of a distance file live.
type Layout struct {
	Shape Shape

	// Delimiter separating fields. Zero means detect from the data.
	Delimiter rune

	// Columns holds the zero-based positions of the two sample names and the
	// distance for Long files.
	Columns [3]int

	// Header reports whether a Long file starts with a header line.
	Header bool
}

// Layouts are the presets selectable by name from the command line. The
// column choices follow the output of common pairwise-distance tools.
var Layouts = map[string]Layout{
	"square":     {Shape: Square},
	"square-csv": {Shape: Square, Delimiter: ','},
	"long":       {Shape: Long, Delimiter: '\t', Columns: [3]int{0, 1, 2}},
	"mash":       {Shape: Long, Delimiter: '\t', Columns: [3]int{0, 1, 3}},
	"ska1":       {Shape: Long, Delimiter: '\t', Columns: [3]int{0, 1, 6}, Header: true},
	"ska2":       {Shape: Long, Delimiter: '\t', Columns: [3]int{0, 1, 2}, Header: true},
}

// LayoutNames lists the known layout presets.
func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// LookupLayout returns the named preset.
func LookupLayout(name string) (Layout, error) {
	l, exists := Layouts[name]
	if !exists {
		return Layout{}, fmt.Errorf("unknown distance layout %q (choices: %s)", name, LayoutNames())
	}
	return l, nil
}
