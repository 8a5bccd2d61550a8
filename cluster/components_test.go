package cluster

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/carbocation/pathogenx/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/topo"
)

func twoPairs(t *testing.T) *distance.Matrix {
	t.Helper()
	m, err := distance.FromTriplets(4, []distance.Edge{
		{I: 0, J: 1, D: 3}, {I: 2, J: 3, D: 5},
		{I: 0, J: 2, D: 10}, {I: 0, J: 3, D: 12}, {I: 1, J: 2, D: 11}, {I: 1, J: 3, D: 15},
	})
	require.NoError(t, err)
	return m
}

func components(t *testing.T, m *distance.Matrix, threshold float64) Assignment {
	t.Helper()
	edges, err := m.Edges(threshold)
	require.NoError(t, err)
	return ConnectedComponents(m.Dim(), edges)
}

func TestTwoPairs(t *testing.T) {
	m := twoPairs(t)

	a := components(t, m, 5)
	assert.Equal(t, Assignment{0, 0, 1, 1}, a)
	assert.Equal(t, 2, a.Count())
	assert.Equal(t, []int{2, 2}, a.Sizes())

	a = components(t, m, 0)
	assert.Equal(t, Assignment{0, 1, 2, 3}, a)
	assert.Equal(t, []int{1, 1, 1, 1}, a.Sizes())
}

func TestNumberingFollowsLowestIndex(t *testing.T) {
	// 0 is isolated, 1 joins 4 transitively through 3.
	edges := []distance.Edge{{I: 3, J: 4}, {I: 1, J: 3}, {I: 2, J: 5}}
	a := ConnectedComponents(6, edges)
	assert.Equal(t, Assignment{0, 1, 2, 1, 1, 2}, a)
	assert.Equal(t, []int{1, 3, 2}, a.Sizes())
	assert.Equal(t, "cluster_2", a.Labels()[3].String())
}

// randomMatrix builds a random sparse matrix over n samples.
func randomMatrix(t *testing.T, rng *rand.Rand, n int) *distance.Matrix {
	t.Helper()
	var edges []distance.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < 0.1 {
				edges = append(edges, distance.Edge{I: i, J: j, D: float64(rng.Intn(50))})
			}
		}
	}
	m, err := distance.FromTriplets(n, edges)
	require.NoError(t, err)
	return m
}

func TestMonotonicCoarsening(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		m := randomMatrix(t, rng, 60)
		previous := m.Dim() + 1
		for _, threshold := range []float64{0, 1, 5, 10, 20, 35, 50} {
			count := components(t, m, threshold).Count()
			assert.LessOrEqual(t, count, previous, "threshold %v", threshold)
			previous = count
		}
	}
}

func TestPartitionIsExhaustiveAndExclusive(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m := randomMatrix(t, rng, 80)
	a := components(t, m, 20)

	seen := make(map[int]int)
	groups := make([][]int, a.Count())
	for i, id := range a {
		groups[id] = append(groups[id], i)
	}
	for id, members := range groups {
		require.NotEmpty(t, members)
		for _, s := range members {
			_, dup := seen[s]
			require.False(t, dup, "sample %d in more than one cluster", s)
			seen[s] = id
		}
	}
	assert.Len(t, seen, m.Dim())
}

func TestMatchesGraphComponents(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := randomMatrix(t, rng, 70)
	for _, threshold := range []float64{0, 10, 25} {
		g, err := m.Graph(threshold)
		require.NoError(t, err)
		want := topo.ConnectedComponents(g)

		got := components(t, m, threshold)
		require.Equal(t, len(want), got.Count())

		// Every gonum component maps onto exactly one cluster of equal size.
		sizes := got.Sizes()
		for _, comp := range want {
			id := got[int(comp[0].ID())]
			for _, node := range comp {
				assert.Equal(t, id, got[int(node.ID())])
			}
			assert.Equal(t, len(comp), sizes[id])
		}
	}
}

func TestDeterministicAcrossEdgeOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	m := randomMatrix(t, rng, 50)
	edges, err := m.Edges(15)
	require.NoError(t, err)
	first := ConnectedComponents(m.Dim(), edges)

	for i := 0; i < 5; i++ {
		shuffled := append([]distance.Edge(nil), edges...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, first, ConnectedComponents(m.Dim(), shuffled))
	}
}

func TestWithinIgnoresCrossGroupEdges(t *testing.T) {
	m := twoPairs(t)
	edges, err := m.Edges(100)
	require.NoError(t, err)

	// Everything is connected, but samples 1 and 3 are in another group.
	a := Within([]int32{0, 1, 0, 1}, edges)
	assert.Equal(t, Assignment{0, 1, 0, 1}, a)
}

func TestByCodes(t *testing.T) {
	a := ByCodes([]int32{4, 2, 4, 7})
	assert.Equal(t, Assignment{0, 1, 0, 2}, a)

	sizes := a.Sizes()
	sort.Ints(sizes)
	assert.Equal(t, []int{1, 1, 2}, sizes)
}
