// Package cluster partitions samples into clusters, either as connected
// components of a thresholded distance graph or by shared variable values.
package cluster

import (
	"fmt"

	"github.com/carbocation/pathogenx/distance"
	"github.com/carbocation/pathogenx/table"
	"github.com/theodesp/unionfind"
)

// Assignment holds a dense cluster id for each sample index. Ids are numbered
// by first appearance: the cluster containing sample 0 is 0, the next
// previously unseen cluster is 1, and so on.
type Assignment []int

// ConnectedComponents partitions samples 0..n-1 into the connected components
// of the graph formed by edges. Samples without edges are singletons.
func ConnectedComponents(n int, edges []distance.Edge) Assignment {
	uf := unionfind.New(n)
	for _, e := range edges {
		uf.Union(e.I, e.J)
	}

	return renumber(n, uf.Root)
}

// Within computes connected components separately inside each group: edges
// joining samples of different groups are ignored. groups holds a group code
// per sample.
func Within(groups []int32, edges []distance.Edge) Assignment {
	n := len(groups)
	uf := unionfind.New(n)
	for _, e := range edges {
		if groups[e.I] == groups[e.J] {
			uf.Union(e.I, e.J)
		}
	}

	return renumber(n, uf.Root)
}

// ByCodes gives each distinct code its own cluster.
func ByCodes(codes []int32) Assignment {
	out := make(Assignment, len(codes))
	seen := make(map[int32]int)
	for i, c := range codes {
		id, exists := seen[c]
		if !exists {
			id = len(seen)
			seen[c] = id
		}
		out[i] = id
	}
	return out
}

// renumber maps union-find roots onto dense ids in order of the lowest sample
// index of each component.
func renumber(n int, root func(int) int) Assignment {
	out := make(Assignment, n)
	ids := make([]int, n)
	for i := range ids {
		ids[i] = -1
	}

	next := 0
	for i := 0; i < n; i++ {
		r := root(i)
		if ids[r] < 0 {
			ids[r] = next
			next++
		}
		out[i] = ids[r]
	}

	return out
}

// Count returns the number of clusters.
func (a Assignment) Count() int {
	max := -1
	for _, id := range a {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Sizes returns the number of samples in each cluster, indexed by id.
func (a Assignment) Sizes() []int {
	sizes := make([]int, a.Count())
	for _, id := range a {
		sizes[id]++
	}
	return sizes
}

// Label formats a cluster id for display. Labels are 1-based.
func Label(id int) string {
	return fmt.Sprintf("cluster_%d", id+1)
}

// Labels returns one categorical value per sample.
func (a Assignment) Labels() []table.Value {
	out := make([]table.Value, len(a))
	for i, id := range a {
		out[i] = table.StringValue(Label(id))
	}
	return out
}
