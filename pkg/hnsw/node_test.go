package hnsw

import "testing"

func TestNewNodeInitializesEmptyLayers(t *testing.T) {
	n := newNode(7, 2)
	if n.id != 7 {
		t.Errorf("id = %d, want 7", n.id)
	}
	if len(n.neighbors) != 3 {
		t.Errorf("expected 3 layers (0..2), got %d", len(n.neighbors))
	}
	for l, nb := range n.neighbors {
		if len(nb) != 0 {
			t.Errorf("layer %d should start empty, got %d", l, len(nb))
		}
	}
}

func TestAddNeighborRejectsDuplicates(t *testing.T) {
	n := newNode(0, 1)
	n.addNeighbor(0, 5)
	n.addNeighbor(0, 5)
	if len(n.neighbors[0]) != 1 {
		t.Errorf("expected duplicate neighbor to be ignored, got %d entries", len(n.neighbors[0]))
	}
}

func TestSetNeighborsReplacesList(t *testing.T) {
	n := newNode(0, 0)
	n.setNeighbors(0, []int64{1, 2, 3})
	n.setNeighbors(0, []int64{9})
	if len(n.neighbors[0]) != 1 || n.neighbors[0][0] != 9 {
		t.Errorf("setNeighbors did not replace list: %v", n.neighbors[0])
	}
}
