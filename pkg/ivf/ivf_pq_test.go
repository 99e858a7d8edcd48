package ivf

import (
	"math/rand"
	"testing"
)

func TestIVFPQUntrainedAddIsNoop(t *testing.T) {
	ix := NewIVFPQ(8, 4, 4, 4)
	vecs := randomVectors(rand.New(rand.NewSource(1)), 10, 8)
	if err := ix.Add(vecs, 10); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if ix.Ntotal() != 0 {
		t.Errorf("expected ntotal 0 for untrained add, got %d", ix.Ntotal())
	}
}

func TestIVFPQUntrainedSearchSentinels(t *testing.T) {
	ix := NewIVFPQ(8, 4, 4, 4)
	dists, ids, err := ix.Search(make([]float32, 8), 1, 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	for i := range dists {
		if dists[i] != -1.0 || ids[i] != -1 {
			t.Errorf("slot %d = (%v, %d), want (-1, -1)", i, dists[i], ids[i])
		}
	}
}

func TestIVFPQTrainAddSearchReturnsValidIDs(t *testing.T) {
	d, nlist, n := 8, 4, 200
	r := rand.New(rand.NewSource(5))
	vecs := randomVectors(r, n, d)

	ix := NewIVFPQ(d, nlist, 4, 4)
	if err := ix.Train(vecs, n); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if !ix.IsTrained() {
		t.Fatal("expected index to be trained")
	}
	if err := ix.Add(vecs, n); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if ix.Ntotal() != n {
		t.Errorf("Ntotal() = %d, want %d", ix.Ntotal(), n)
	}
	ix.SetNProbe(nlist)

	query := randomVectors(r, 1, d)
	k := 5
	dists, ids, err := ix.Search(query, 1, k)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 0; i < k; i++ {
		if ids[i] < 0 || int(ids[i]) >= n {
			t.Errorf("result %d: id %d out of range [0,%d)", i, ids[i], n)
		}
		if dists[i] < 0 {
			t.Errorf("result %d: negative distance %v", i, dists[i])
		}
	}
}

func TestIVFPQAddRejectsDimensionMismatch(t *testing.T) {
	ix := NewIVFPQ(8, 2, 4, 1)
	vecs := randomVectors(rand.New(rand.NewSource(1)), 4, 8)
	if err := ix.Train(vecs, 4); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := ix.Add([]float32{1, 2, 3}, 1); err == nil {
		t.Error("expected dimension mismatch error")
	}
}
