package dataset

import (
	"fmt"
	"strings"

	"github.com/carbocation/pathogenx/cluster"
	"github.com/carbocation/pathogenx/distance"
	"github.com/carbocation/pathogenx/table"
	log "github.com/sirupsen/logrus"
)

// AttachClusters partitions samples into connected components of the distance
// graph thresholded at t and stores the labels in the Cluster column,
// replacing any previous assignment. Calling it again with the same threshold
// returns the existing assignment.
func (d *Dataset) AttachClusters(t float64) (cluster.Assignment, error) {
	return d.AttachClustersWithin(t)
}

// AttachClustersWithin is AttachClusters with components computed separately
// inside each combination of the groupBy columns.
func (d *Dataset) AttachClustersWithin(t float64, groupBy ...string) (cluster.Assignment, error) {
	key := fmt.Sprintf("components:%g:%s", t, strings.Join(groupBy, "\x1f"))
	if key == d.clusterKey {
		return d.clusters, nil
	}
	if d.distances == nil {
		return nil, ErrNoDistances
	}
	if err := d.checkClusterColumn(); err != nil {
		return nil, err
	}

	groups, err := d.Codes(groupBy...)
	if err != nil {
		return nil, err
	}

	g, err := d.distances.Graph(t)
	if err != nil {
		return nil, err
	}
	edges := distance.GraphEdges(g)
	if lowest, ok := d.distances.Min(); ok && t < lowest {
		log.Debugf("%s: threshold %v is below the smallest distance %v, so every sample is its own cluster", d.name, t, lowest)
	}

	var a cluster.Assignment
	if len(groupBy) == 0 {
		a = cluster.ConnectedComponents(d.Len(), edges)
	} else {
		a = cluster.Within(groups, edges)
	}

	log.WithFields(log.Fields{
		"dataset":   d.name,
		"threshold": t,
		"edges":     len(edges),
		"clusters":  a.Count(),
	}).Debug("computed connected components")

	return a, d.setClusters(key, a)
}

// AttachVariableClusters gives each observed combination of the groupBy
// columns its own cluster. With no columns, every sample is its own cluster.
func (d *Dataset) AttachVariableClusters(groupBy ...string) (cluster.Assignment, error) {
	key := "variables:" + strings.Join(groupBy, "\x1f")
	if key == d.clusterKey {
		return d.clusters, nil
	}
	if err := d.checkClusterColumn(); err != nil {
		return nil, err
	}

	var a cluster.Assignment
	if len(groupBy) == 0 {
		a = make(cluster.Assignment, d.Len())
		for i := range a {
			a[i] = i
		}
	} else {
		codes, err := d.Codes(groupBy...)
		if err != nil {
			return nil, err
		}
		a = cluster.ByCodes(codes)
	}

	return a, d.setClusters(key, a)
}

// Clusters returns the current cluster assignment, if any.
func (d *Dataset) Clusters() (cluster.Assignment, bool) {
	return d.clusters, d.clusters != nil
}

func (d *Dataset) checkClusterColumn() error {
	if d.HasColumn(ClusterColumn) && !d.derived[ClusterColumn] {
		return fmt.Errorf("%w: source data already has a %q column", ErrColumnConflict, ClusterColumn)
	}
	return nil
}

func (d *Dataset) setClusters(key string, a cluster.Assignment) error {
	if d.clusterKey != "" {
		log.Warnf("%s: %q column already exists and will be overwritten", d.name, ClusterColumn)
	}
	if err := d.AddColumn(ClusterColumn, a.Labels()); err != nil {
		return err
	}
	d.clusters = a
	d.clusterKey = key
	return nil
}

// Codes assigns each sample a dense code identifying its combination of values
// across columns, in first-appearance order. Missing values are a value of
// their own. With no columns every sample gets code 0.
func (d *Dataset) Codes(columns ...string) ([]int32, error) {
	encoded := make([][]int32, len(columns))
	for i, name := range columns {
		col, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		encoded[i], _ = table.Encode(col)
	}

	codes, _ := table.EncodeTuples(d.Len(), encoded...)
	return codes, nil
}
