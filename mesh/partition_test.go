package mesh

import "testing"

func TestPartitionSubsets(t *testing.T) {
	// 5-node line mesh, 4 elements: 0-1, 1-2, 2-3, 3-4.
	m := testMesh(t, 5, 4)

	subsets, err := PartitionSubsets(m, []int{0, 0, 1, 1})
	if err != nil {
		t.Fatalf("Failed to partition: %v", err)
	}
	if len(subsets) != 2 {
		t.Fatalf("Expected 2 partitions, got %d", len(subsets))
	}

	cases := []struct {
		part         int
		wantElements []int
		wantNodes    []int
	}{
		{0, []int{0, 1}, []int{0, 1, 2}},
		{1, []int{2, 3}, []int{2, 3, 4}},
	}
	for _, tc := range cases {
		s := subsets[tc.part]
		if s.NElements() != len(tc.wantElements) {
			t.Fatalf("Partition %d: expected %d elements, got %d",
				tc.part, len(tc.wantElements), s.NElements())
		}
		for i, want := range tc.wantElements {
			if got := s.ElementID(i); got != want {
				t.Errorf("Partition %d element %d: expected id %d, got %d", tc.part, i, want, got)
			}
		}
		if s.NNodes() != len(tc.wantNodes) {
			t.Fatalf("Partition %d: expected %d nodes, got %d",
				tc.part, len(tc.wantNodes), s.NNodes())
		}
		for i, want := range tc.wantNodes {
			if got := s.NodeID(i); got != want {
				t.Errorf("Partition %d node %d: expected id %d, got %d", tc.part, i, want, got)
			}
		}
	}

	// Node 2 sits on the interface and belongs to both subsets.
	if subsets[0].NodeID(2) != 2 || subsets[1].NodeID(0) != 2 {
		t.Error("Interface node missing from one of its partitions")
	}
}

func TestPartitionSubsets_Validation(t *testing.T) {
	m := testMesh(t, 3, 2)

	if _, err := PartitionSubsets(nil, nil); err == nil {
		t.Error("Expected error for nil mesh")
	}
	if _, err := PartitionSubsets(m, []int{0}); err == nil {
		t.Error("Expected error for short EToP")
	}
	if _, err := PartitionSubsets(m, []int{0, -1}); err == nil {
		t.Error("Expected error for negative partition id")
	}
}

func TestPartitionSubsets_EmptyPartitionInRange(t *testing.T) {
	// Partition 1 is never assigned; it still appears, empty.
	m := testMesh(t, 3, 2)
	subsets, err := PartitionSubsets(m, []int{0, 2})
	if err != nil {
		t.Fatalf("Failed to partition: %v", err)
	}
	if len(subsets) != 3 {
		t.Fatalf("Expected 3 partitions, got %d", len(subsets))
	}
	if subsets[1].NElements() != 0 || subsets[1].NNodes() != 0 {
		t.Errorf("Expected empty partition 1, got %d elements and %d nodes",
			subsets[1].NElements(), subsets[1].NNodes())
	}
}

func TestStatistics(t *testing.T) {
	m := testMesh(t, 5, 4)
	subsets, err := PartitionSubsets(m, []int{0, 0, 0, 1})
	if err != nil {
		t.Fatalf("Failed to partition: %v", err)
	}

	stats := Statistics(subsets)
	if stats.NumPartitions != 2 {
		t.Errorf("Expected 2 partitions, got %d", stats.NumPartitions)
	}
	if stats.MinElements != 1 || stats.MaxElements != 3 {
		t.Errorf("Expected min 1 max 3, got min %d max %d", stats.MinElements, stats.MaxElements)
	}
	if stats.AvgElements != 2.0 {
		t.Errorf("Expected average 2.0, got %g", stats.AvgElements)
	}
	if stats.Imbalance != 1.5 {
		t.Errorf("Expected imbalance 1.5, got %g", stats.Imbalance)
	}

	empty := Statistics(nil)
	if empty.NumPartitions != 0 || empty.MinElements != 0 {
		t.Errorf("Unexpected stats for empty input: %+v", empty)
	}
}
