package dataset

import (
	"testing"

	"github.com/carbocation/pathogenx/cluster"
	"github.com/carbocation/pathogenx/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTwoPairs(t *testing.T) *Dataset {
	t.Helper()
	m, err := distance.FromTriplets(4, []distance.Edge{
		{I: 0, J: 1, D: 3}, {I: 2, J: 3, D: 5},
		{I: 0, J: 2, D: 10}, {I: 0, J: 3, D: 12}, {I: 1, J: 2, D: 11}, {I: 1, J: 3, D: 15},
	})
	require.NoError(t, err)
	meta := mustTable(t, []string{"Country"},
		[]string{"A", "UK"},
		[]string{"B", "FR"},
		[]string{"C", "UK"},
		[]string{"D", "UK"},
	)
	ds, err := New(genotypes(t), WithMetadata(meta), WithDistances(m, nil))
	require.NoError(t, err)
	return ds
}

func TestAttachClusters(t *testing.T) {
	ds := withTwoPairs(t)

	a, err := ds.AttachClusters(5)
	require.NoError(t, err)
	assert.Equal(t, cluster.Assignment{0, 0, 1, 1}, a)

	col, err := ds.Column(ClusterColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"cluster_1", "cluster_1", "cluster_2", "cluster_2"}, texts(col))
	assert.True(t, ds.IsDerived(ClusterColumn))

	again, err := ds.AttachClusters(5)
	require.NoError(t, err)
	assert.Equal(t, a, again)

	// A different threshold replaces the column rather than merging into it.
	a, err = ds.AttachClusters(0)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Count())
	col, err = ds.Column(ClusterColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"cluster_1", "cluster_2", "cluster_3", "cluster_4"}, texts(col))

	current, ok := ds.Clusters()
	require.True(t, ok)
	assert.Equal(t, a, current)

	n := 0
	for _, c := range ds.Columns() {
		if c == ClusterColumn {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestAttachClustersWithin(t *testing.T) {
	ds := withTwoPairs(t)

	a, err := ds.AttachClustersWithin(100, "Country")
	require.NoError(t, err)
	assert.Equal(t, cluster.Assignment{0, 1, 0, 0}, a)

	_, err = ds.AttachClustersWithin(100, "Region")
	require.Error(t, err)
}

func TestAttachClustersRequiresDistances(t *testing.T) {
	ds, err := New(genotypes(t))
	require.NoError(t, err)

	_, err = ds.AttachClusters(20)
	require.ErrorIs(t, err, ErrNoDistances)
	assert.False(t, ds.HasColumn(ClusterColumn))
}

func TestAttachClustersRejectsSourceClusterColumn(t *testing.T) {
	src := mustTable(t, []string{"ST", ClusterColumn},
		[]string{"A", "ST1", "x"},
		[]string{"B", "ST2", "y"},
	)
	m, err := distance.FromTriplets(2, []distance.Edge{{I: 0, J: 1, D: 1}})
	require.NoError(t, err)
	ds, err := New(src, WithDistances(m, nil))
	require.NoError(t, err)

	_, err = ds.AttachClusters(5)
	require.ErrorIs(t, err, ErrColumnConflict)
}

func TestAttachVariableClusters(t *testing.T) {
	ds := withTwoPairs(t)

	a, err := ds.AttachVariableClusters("Country", "ST")
	require.NoError(t, err)
	assert.Equal(t, cluster.Assignment{0, 1, 2, 3}, a)

	a, err = ds.AttachVariableClusters("Country")
	require.NoError(t, err)
	assert.Equal(t, cluster.Assignment{0, 1, 0, 0}, a)

	a, err = ds.AttachVariableClusters()
	require.NoError(t, err)
	assert.Equal(t, 4, a.Count())
}

func TestCodesTreatMissingAsValue(t *testing.T) {
	ds, err := New(genotypes(t))
	require.NoError(t, err)

	codes, err := ds.Codes("K_locus")
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 0, 2}, codes)

	codes, err = ds.Codes()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0, 0}, codes)
}
