package distance

import (
	"fmt"
	"math"
	"sort"
)

// Edge is a stored pair with I < J.
type Edge struct {
	I, J int
	D    float64
}

// Matrix is a compressed sparse row matrix. Row i's entries are
// indices[indptr[i]:indptr[i+1]] with matching data, sorted by column.
type Matrix struct {
	n       int
	indptr  []int64
	indices []int32
	data    []float64
}

// Dim returns the number of samples the matrix describes.
func (m *Matrix) Dim() int { return m.n }

// NNZ returns the number of stored unordered pairs.
func (m *Matrix) NNZ() int { return len(m.indices) / 2 }

// At returns the stored distance between i and j.
func (m *Matrix) At(i, j int) (float64, bool) {
	if i < 0 || j < 0 || i >= m.n || j >= m.n || i == j {
		return 0, false
	}
	row := m.indices[m.indptr[i]:m.indptr[i+1]]
	k := sort.Search(len(row), func(k int) bool { return int(row[k]) >= j })
	if k < len(row) && int(row[k]) == j {
		return m.data[m.indptr[i]+int64(k)], true
	}

	return 0, false
}

// Edges returns every stored pair with distance ≤ t, in row-major order.
func (m *Matrix) Edges(t float64) ([]Edge, error) {
	if err := checkThreshold(t); err != nil {
		return nil, err
	}

	var out []Edge
	for i := 0; i < m.n; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			j := int(m.indices[k])
			if j <= i {
				continue
			}
			if d := m.data[k]; d <= t {
				out = append(out, Edge{I: i, J: j, D: d})
			}
		}
	}

	return out, nil
}

// Min returns the smallest stored distance, or false for an empty matrix.
func (m *Matrix) Min() (float64, bool) {
	if len(m.data) == 0 {
		return 0, false
	}
	min := math.Inf(1)
	for _, d := range m.data {
		if d < min {
			min = d
		}
	}
	return min, true
}

// Select returns a new matrix over len(order) samples where new index k is old
// index order[k]. Entries touching samples absent from order are dropped.
// order must not repeat an index.
func (m *Matrix) Select(order []int) (*Matrix, error) {
	newIndex := make([]int32, m.n)
	for i := range newIndex {
		newIndex[i] = -1
	}
	for k, old := range order {
		if old < 0 || old >= m.n {
			return nil, fmt.Errorf("%w: index %d outside matrix of dimension %d", ErrAlignment, old, m.n)
		}
		if newIndex[old] >= 0 {
			return nil, fmt.Errorf("%w: index %d selected twice", ErrAlignment, old)
		}
		newIndex[old] = int32(k)
	}

	b := NewBuilder(len(order))
	for k, old := range order {
		for p := m.indptr[old]; p < m.indptr[old+1]; p++ {
			j := newIndex[m.indices[p]]
			if j < 0 || int(j) <= k {
				continue
			}
			b.add(k, int(j), m.data[p])
		}
	}

	return b.Build(), nil
}

func checkThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 {
		return fmt.Errorf("%w: %v", ErrThreshold, t)
	}
	return nil
}
