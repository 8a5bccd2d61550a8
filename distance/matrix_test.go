package distance

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/topo"
)

// twoPairs is four samples forming two tight pairs (0,1) and (2,3) that are
// at least 10 apart from each other.
func twoPairs(t *testing.T) *Matrix {
	t.Helper()
	m, err := FromTriplets(4, []Edge{
		{0, 1, 3}, {2, 3, 5},
		{0, 2, 10}, {0, 3, 12}, {1, 2, 11}, {1, 3, 15},
	})
	require.NoError(t, err)
	return m
}

func TestMatrixSymmetricLookup(t *testing.T) {
	m := twoPairs(t)
	assert.Equal(t, 4, m.Dim())
	assert.Equal(t, 6, m.NNZ())

	for _, pair := range [][2]int{{0, 1}, {1, 0}, {3, 2}, {2, 3}} {
		_, ok := m.At(pair[0], pair[1])
		assert.True(t, ok, "pair %v", pair)
	}
	d, ok := m.At(3, 1)
	require.True(t, ok)
	assert.Equal(t, 15.0, d)

	_, ok = m.At(2, 2)
	assert.False(t, ok)

	min, ok := m.Min()
	require.True(t, ok)
	assert.Equal(t, 3.0, min)
}

func TestBuilderMergesDuplicatesWithMax(t *testing.T) {
	m, err := FromTriplets(2, []Edge{{0, 1, 2}, {1, 0, 4}, {0, 0, 9}})
	require.NoError(t, err)
	assert.Equal(t, 1, m.NNZ())
	d, _ := m.At(0, 1)
	assert.Equal(t, 4.0, d)
}

func TestBuilderRejectsMalformed(t *testing.T) {
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := FromTriplets(2, []Edge{{0, 1, d}})
		require.ErrorIs(t, err, ErrAlignment, "distance %v", d)
	}
	_, err := FromTriplets(2, []Edge{{0, 2, 1}})
	require.ErrorIs(t, err, ErrAlignment)

	_, err = FromSquare([][]float64{{0, 1}, {1}})
	require.ErrorIs(t, err, ErrAlignment)
}

func TestEdgesThreshold(t *testing.T) {
	m := twoPairs(t)

	edges, err := m.Edges(5)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{0, 1, 3}, {2, 3, 5}}, edges)

	edges, err = m.Edges(0)
	require.NoError(t, err)
	assert.Empty(t, edges)

	_, err = m.Edges(-1)
	require.ErrorIs(t, err, ErrThreshold)
}

func TestExplicitZeroIsAnEdge(t *testing.T) {
	m, err := FromSquare([][]float64{
		{0, 0, math.NaN()},
		{0, 0, 7},
		{math.NaN(), 7, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.NNZ())

	edges, err := m.Edges(0)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{0, 1, 0}}, edges)
}

func TestGraphKeepsIsolatedNodes(t *testing.T) {
	m := twoPairs(t)

	g, err := m.Graph(5)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Nodes().Len())
	assert.Equal(t, 2, len(topo.ConnectedComponents(g)))

	g, err = m.Graph(0)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Nodes().Len())
	assert.Equal(t, 4, len(topo.ConnectedComponents(g)))

	g, err = m.Graph(100)
	require.NoError(t, err)
	assert.Equal(t, 1, len(topo.ConnectedComponents(g)))
	w, ok := g.Weight(1, 3)
	require.True(t, ok)
	assert.Equal(t, 15.0, w)
}

func TestGraphEdgesMatchThresholdedEdges(t *testing.T) {
	m := twoPairs(t)

	for _, threshold := range []float64{0, 5, 12, 100} {
		want, err := m.Edges(threshold)
		require.NoError(t, err)
		g, err := m.Graph(threshold)
		require.NoError(t, err)
		assert.Equal(t, want, GraphEdges(g), "threshold %v", threshold)
	}
}

func TestSelectPermutesAndDrops(t *testing.T) {
	m := twoPairs(t)

	// New order: old 3, old 0, old 2. Old 1 is dropped.
	s, err := m.Select([]int{3, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Dim())
	assert.Equal(t, 3, s.NNZ())

	d, ok := s.At(0, 2)
	require.True(t, ok)
	assert.Equal(t, 5.0, d)
	d, ok = s.At(1, 0)
	require.True(t, ok)
	assert.Equal(t, 12.0, d)

	_, err = m.Select([]int{0, 0})
	require.ErrorIs(t, err, ErrAlignment)
	_, err = m.Select([]int{4})
	require.ErrorIs(t, err, ErrAlignment)
}

func TestReadSquare(t *testing.T) {
	in := ",A,B,C\nA,0,2,9\nB,2,0,\nC,9,,0\n"
	m, labels, err := Read(strings.NewReader(in), Layouts["square-csv"])
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, labels)
	assert.Equal(t, 2, m.NNZ())
	_, ok := m.At(1, 2)
	assert.False(t, ok)

	_, _, err = Read(strings.NewReader(",A,B\nA,0,x\nB,1,0\n"), Layouts["square-csv"])
	require.ErrorIs(t, err, ErrAlignment)

	_, _, err = Read(strings.NewReader(",A,B\nB,0,1\nA,1,0\n"), Layouts["square-csv"])
	require.ErrorIs(t, err, ErrAlignment)

	_, _, err = Read(strings.NewReader(",A,B\nA,0,1\n"), Layouts["square-csv"])
	require.ErrorIs(t, err, ErrAlignment)
}

func TestReadLong(t *testing.T) {
	in := "A\tB\t0.01\t4\nB\tC\t0.02\t30\n"
	m, labels, err := Read(strings.NewReader(in), Layouts["mash"])
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, labels)
	d, ok := m.At(2, 1)
	require.True(t, ok)
	assert.Equal(t, 30.0, d)

	in = "Sample 1\tSample 2\tSNPs\nA\tB\t4\n"
	_, labels, err = Read(strings.NewReader(in), Layouts["ska2"])
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, labels)

	_, _, err = Read(strings.NewReader("A\tB\tfar\n"), Layouts["long"])
	require.ErrorIs(t, err, ErrAlignment)
}

func TestLookupLayout(t *testing.T) {
	l, err := LookupLayout("ska1")
	require.NoError(t, err)
	assert.Equal(t, Long, l.Shape)
	assert.Equal(t, 6, l.Columns[2])

	_, err = LookupLayout("phylip")
	require.Error(t, err)
}
