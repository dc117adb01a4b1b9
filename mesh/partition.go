package mesh

import (
	"fmt"
	"math"
)

// PartitionSubsets splits a mesh into per-partition subsets from an
// element-to-partition assignment. EToP[k] names the partition owning
// element k; the assignment itself comes from an external partitioner.
//
// Each returned subset holds the partition's elements in ascending id
// order and every node touched by those elements, listed in first-touch
// order. Nodes shared by elements of different partitions appear in each
// touching partition's subset.
func PartitionSubsets(m *Mesh, eToP []int) ([]*MeshSubset, error) {
	if m == nil {
		return nil, fmt.Errorf("partition: mesh cannot be nil")
	}
	if len(eToP) != m.NElements() {
		return nil, fmt.Errorf("partition: EToP has %d entries for %d elements",
			len(eToP), m.NElements())
	}

	numPartitions := 0
	for k, p := range eToP {
		if p < 0 {
			return nil, fmt.Errorf("partition: element %d assigned to negative partition %d", k, p)
		}
		if p+1 > numPartitions {
			numPartitions = p + 1
		}
	}

	elements := make([][]int, numPartitions)
	nodes := make([][]int, numPartitions)
	seen := make([]map[int]bool, numPartitions)
	for p := range seen {
		seen[p] = make(map[int]bool)
	}

	// Walking elements in id order keeps both lists deterministic.
	for k, p := range eToP {
		elements[p] = append(elements[p], k)
		for _, n := range m.GetElement(k).Nodes {
			if !seen[p][n] {
				seen[p][n] = true
				nodes[p] = append(nodes[p], n)
			}
		}
	}

	subsets := make([]*MeshSubset, numPartitions)
	for p := 0; p < numPartitions; p++ {
		s, err := NewMeshSubset(m, fmt.Sprintf("%s-part%d", m.Name(), p), nodes[p], elements[p])
		if err != nil {
			return nil, fmt.Errorf("partition %d: %w", p, err)
		}
		subsets[p] = s
	}
	return subsets, nil
}

// PartitionStats summarizes the element load balance of a decomposition
type PartitionStats struct {
	NumPartitions int
	MinElements   int
	MaxElements   int
	AvgElements   float64
	Imbalance     float64 // MaxElements / AvgElements
}

// Statistics computes load balance metrics for a set of partition subsets
func Statistics(subsets []*MeshSubset) PartitionStats {
	stats := PartitionStats{
		NumPartitions: len(subsets),
		MinElements:   math.MaxInt32,
	}
	if len(subsets) == 0 {
		stats.MinElements = 0
		return stats
	}

	total := 0
	for _, s := range subsets {
		n := s.NElements()
		total += n
		if n < stats.MinElements {
			stats.MinElements = n
		}
		if n > stats.MaxElements {
			stats.MaxElements = n
		}
	}
	stats.AvgElements = float64(total) / float64(len(subsets))
	if stats.AvgElements > 0 {
		stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements
	}
	return stats
}
