package topk

import "testing"

func TestFindTopKOrdersAscendingWithTieBreakByIndex(t *testing.T) {
	d := []float32{5, 1, 1, 3}
	ids := make([]int64, 3)
	dists := make([]float32, 3)
	FindTopK(3, 1, 4, d, ids, dists)

	wantIDs := []int64{1, 2, 3}
	wantDists := []float32{1, 1, 3}
	for i := range wantIDs {
		if ids[i] != wantIDs[i] || dists[i] != wantDists[i] {
			t.Errorf("slot %d = (%v, %d), want (%v, %d)", i, dists[i], ids[i], wantDists[i], wantIDs[i])
		}
	}
}

func TestFindTopKPadsWhenKExceedsCandidates(t *testing.T) {
	d := []float32{2, 1}
	ids := make([]int64, 4)
	dists := make([]float32, 4)
	FindTopK(4, 1, 2, d, ids, dists)

	if ids[0] != 1 || dists[0] != 1 {
		t.Errorf("slot 0 = (%v, %d), want (1, 1)", dists[0], ids[0])
	}
	if ids[1] != 0 || dists[1] != 2 {
		t.Errorf("slot 1 = (%v, %d), want (2, 0)", dists[1], ids[1])
	}
	for i := 2; i < 4; i++ {
		if ids[i] != -1 || dists[i] != -1.0 {
			t.Errorf("slot %d = (%v, %d), want (-1, -1)", i, dists[i], ids[i])
		}
	}
}

func TestFindTopKHandlesMultipleRowsIndependently(t *testing.T) {
	d := []float32{
		3, 1, 2,
		9, 8, 7,
	}
	ids := make([]int64, 4)
	dists := make([]float32, 4)
	FindTopK(2, 2, 3, d, ids, dists)

	if ids[0] != 1 || ids[1] != 2 {
		t.Errorf("row 0 ids = %v, want [1 2]", ids[:2])
	}
	if ids[2] != 2 || ids[3] != 1 {
		t.Errorf("row 1 ids = %v, want [2 1]", ids[2:])
	}
}

func TestFindTopKExactKMatchReturnsAllSorted(t *testing.T) {
	d := []float32{4, 2, 8}
	ids := make([]int64, 3)
	dists := make([]float32, 3)
	FindTopK(3, 1, 3, d, ids, dists)

	wantIDs := []int64{1, 0, 2}
	for i, want := range wantIDs {
		if ids[i] != want {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want)
		}
	}
}
