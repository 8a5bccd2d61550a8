package distance

import (
	"fmt"
	"math"
	"sort"
)

type coo struct {
	i, j int32
	d    float64
}

// Builder accumulates entries before compressing them into a Matrix. Entries
// given for both (i, j) and (j, i), or repeated, are merged by keeping the
// larger distance so that an asymmetric input never creates a link that one
// direction rejects.
type Builder struct {
	n       int
	entries []coo
}

func NewBuilder(n int) *Builder {
	return &Builder{n: n}
}

// Add records the distance between samples i and j. Self-distances are
// ignored. Negative, NaN or infinite distances are rejected.
func (b *Builder) Add(i, j int, d float64) error {
	if i < 0 || j < 0 || i >= b.n || j >= b.n {
		return fmt.Errorf("%w: pair (%d, %d) outside matrix of dimension %d", ErrAlignment, i, j, b.n)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("%w: invalid distance %v between %d and %d", ErrAlignment, d, i, j)
	}
	if i == j {
		return nil
	}
	b.add(i, j, d)
	return nil
}

func (b *Builder) add(i, j int, d float64) {
	if i > j {
		i, j = j, i
	}
	b.entries = append(b.entries, coo{i: int32(i), j: int32(j), d: d})
}

// Build compresses the accumulated entries.
func (b *Builder) Build() *Matrix {
	sort.Slice(b.entries, func(x, y int) bool {
		if b.entries[x].i != b.entries[y].i {
			return b.entries[x].i < b.entries[y].i
		}
		return b.entries[x].j < b.entries[y].j
	})

	// Merge duplicates in place.
	merged := b.entries[:0]
	for _, e := range b.entries {
		if last := len(merged) - 1; last >= 0 && merged[last].i == e.i && merged[last].j == e.j {
			if e.d > merged[last].d {
				merged[last].d = e.d
			}
			continue
		}
		merged = append(merged, e)
	}

	m := &Matrix{
		n:       b.n,
		indptr:  make([]int64, b.n+1),
		indices: make([]int32, 2*len(merged)),
		data:    make([]float64, 2*len(merged)),
	}
	for _, e := range merged {
		m.indptr[e.i+1]++
		m.indptr[e.j+1]++
	}
	for i := 0; i < b.n; i++ {
		m.indptr[i+1] += m.indptr[i]
	}

	// merged is sorted by (i, j), so every row receives its lower mirrored
	// entries in ascending order before its own upper entries.
	next := make([]int64, b.n)
	copy(next, m.indptr[:b.n])
	for _, e := range merged {
		p := next[e.i]
		m.indices[p], m.data[p] = e.j, e.d
		next[e.i]++

		p = next[e.j]
		m.indices[p], m.data[p] = e.i, e.d
		next[e.j]++
	}

	b.entries = nil
	return m
}

// FromTriplets builds an n×n matrix from (i, j, d) entries.
func FromTriplets(n int, edges []Edge) (*Matrix, error) {
	b := NewBuilder(n)
	for _, e := range edges {
		if err := b.Add(e.I, e.J, e.D); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// FromSquare builds a matrix from a dense square slice. NaN cells are treated
// as absent; the diagonal is ignored.
func FromSquare(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	b := NewBuilder(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, expected %d", ErrAlignment, i, len(row), n)
		}
		for j, d := range row {
			if i == j || math.IsNaN(d) {
				continue
			}
			if err := b.Add(i, j, d); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}
