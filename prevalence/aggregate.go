package prevalence

import (
	"sort"

	"github.com/carbocation/pathogenx/dataset"
	"github.com/carbocation/pathogenx/table"
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
)

// Aggregate computes stratified prevalence over ds without clustering it. Use
// Compute to attach clusters first when Config.SNPDistance is set.
func Aggregate(ds *dataset.Dataset, cfg Config) (*Result, error) {
	cfg, err := cfg.resolve(ds)
	if err != nil {
		return nil, err
	}
	return aggregate(ds, cfg)
}

// aggregate expects a resolved configuration.
func aggregate(ds *dataset.Dataset, cfg Config) (*Result, error) {
	n := ds.Len()

	strataCodes := make([][]int32, len(cfg.Strata))
	strataLevels := make([][]table.Value, len(cfg.Strata))
	denominatorIdx := -1
	for i, name := range cfg.Strata {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		strataCodes[i], strataLevels[i] = table.Encode(col)
		if name == cfg.Denominator {
			denominatorIdx = i
		}
	}

	groupOf, nGroups := table.EncodeTuples(n, strataCodes...)

	// Denominator partitions. With Overall every sample is in partition 0.
	partitionOf := make([]int32, n)
	nPartitions := 1
	if denominatorIdx >= 0 {
		partitionOf = strataCodes[denominatorIdx]
		nPartitions = len(strataLevels[denominatorIdx])
	}
	partitionSize := make([]int, nPartitions)
	for _, p := range partitionOf {
		partitionSize[p]++
	}

	rows := make([]Row, nGroups)
	seen := make([]bool, nGroups)
	for s, g := range groupOf {
		rows[g].Count++
		if seen[g] {
			continue
		}
		seen[g] = true

		key := make([]table.Value, len(cfg.Strata))
		for i := range key {
			key[i] = strataLevels[i][strataCodes[i][s]]
		}
		rows[g].Strata = key
		rows[g].partition = partitionOf[s]
		rows[g].Distinct = make([]int, len(cfg.NDistinct))
	}
	for g := range rows {
		rows[g].Denominator = partitionSize[rows[g].partition]
		rows[g].Prevalence = float64(rows[g].Count) / float64(rows[g].Denominator)
	}

	if len(cfg.AdjustFor) > 0 {
		adjustCodes, err := ds.Codes(cfg.AdjustFor...)
		if err != nil {
			return nil, err
		}
		switch cfg.Pooling {
		case PoolMean:
			if err := adjustMean(rows, groupOf, partitionOf, adjustCodes, nPartitions); err != nil {
				return nil, err
			}
		default:
			adjustDistinct(rows, groupOf, partitionOf, adjustCodes, nPartitions)
		}
	}

	for j, name := range cfg.NDistinct {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		codes, levels := table.Encode(col)
		counted := make(map[uint64]struct{})
		for s, g := range groupOf {
			if levels[codes[s]].IsMissing() {
				continue
			}
			k := pairKey(g, codes[s])
			if _, exists := counted[k]; exists {
				continue
			}
			counted[k] = struct{}{}
			rows[g].Distinct[j]++
		}
	}

	if cfg.ConfidenceLevel > 0 {
		for g := range rows {
			rows[g].Interval = Wilson(float64(rows[g].Count), float64(rows[g].Denominator), cfg.ConfidenceLevel)
			if len(cfg.AdjustFor) > 0 {
				rows[g].AdjustedInterval = Wilson(rows[g].AdjustedCount, float64(rows[g].AdjustedDenominator), cfg.ConfidenceLevel)
			}
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return compareStrata(rows[a].Strata, rows[b].Strata) < 0
	})

	if cfg.Rank {
		rank(rows, nPartitions, func(r *Row) float64 { return r.Prevalence }, func(r *Row, k int) { r.Rank = k })
		if len(cfg.AdjustFor) > 0 {
			rank(rows, nPartitions, func(r *Row) float64 { return r.AdjustedPrevalence }, func(r *Row, k int) { r.AdjustedRank = k })
		}
	}

	return &Result{Config: cfg, Rows: rows}, nil
}

// adjustDistinct replaces samples by distinct adjustment tuples: the adjusted
// count is the number of distinct tuples in the group and the adjusted
// denominator the number in its denominator partition.
func adjustDistinct(rows []Row, groupOf, partitionOf, adjust []int32, nPartitions int) {
	groupDistinct := make([]int, len(rows))
	partitionDistinct := make([]int, nPartitions)
	groupSeen := make(map[uint64]struct{})
	partitionSeen := make(map[uint64]struct{})

	for s, g := range groupOf {
		if k := pairKey(g, adjust[s]); !contains(groupSeen, k) {
			groupSeen[k] = struct{}{}
			groupDistinct[g]++
		}
		if k := pairKey(partitionOf[s], adjust[s]); !contains(partitionSeen, k) {
			partitionSeen[k] = struct{}{}
			partitionDistinct[partitionOf[s]]++
		}
	}

	for g := range rows {
		r := &rows[g]
		r.AdjustedCount = float64(groupDistinct[g])
		r.AdjustedDenominator = partitionDistinct[r.partition]
		r.AdjustedPrevalence = r.AdjustedCount / float64(r.AdjustedDenominator)
	}
}

// adjustMean sub-stratifies each denominator partition by the adjustment
// tuple and gives every sub-stratum equal weight. A group's adjusted count is
// the sum of its shares of the sub-strata it occurs in, its adjusted
// denominator the number of sub-strata in the partition, so its adjusted
// prevalence is the mean share.
func adjustMean(rows []Row, groupOf, partitionOf, adjust []int32, nPartitions int) error {
	partitionSub := make(map[uint64]int)
	subsPerPartition := make([]int, nPartitions)
	for s, p := range partitionOf {
		k := pairKey(p, adjust[s])
		if partitionSub[k] == 0 {
			subsPerPartition[p]++
		}
		partitionSub[k]++
	}

	// Sub-strata per group in first-appearance order, so sums are
	// reproducible.
	groupSub := make(map[uint64]int)
	order := make([][]int32, len(rows))
	for s, g := range groupOf {
		k := pairKey(g, adjust[s])
		if groupSub[k] == 0 {
			order[g] = append(order[g], adjust[s])
		}
		groupSub[k]++
	}

	for g := range rows {
		r := &rows[g]
		shares := make([]float64, 0, len(order[g]))
		for _, sub := range order[g] {
			shares = append(shares, float64(groupSub[pairKey(int32(g), sub)])/float64(partitionSub[pairKey(r.partition, sub)]))
		}
		sum, err := stats.Sum(shares)
		if err != nil {
			return pfx.Err(err)
		}
		r.AdjustedCount = sum
		r.AdjustedDenominator = subsPerPartition[r.partition]
		r.AdjustedPrevalence = sum / float64(r.AdjustedDenominator)
	}

	return nil
}

// rank numbers rows within each denominator partition by descending value.
// Ties keep output order.
func rank(rows []Row, nPartitions int, value func(*Row) float64, set func(*Row, int)) {
	members := make([][]int, nPartitions)
	for i := range rows {
		members[rows[i].partition] = append(members[rows[i].partition], i)
	}
	for _, idx := range members {
		sort.SliceStable(idx, func(a, b int) bool {
			return value(&rows[idx[a]]) > value(&rows[idx[b]])
		})
		for k, i := range idx {
			set(&rows[i], k+1)
		}
	}
}

func compareStrata(a, b []table.Value) int {
	for i := range a {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func pairKey(a, b int32) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

func contains(set map[uint64]struct{}, k uint64) bool {
	_, exists := set[k]
	return exists
}
