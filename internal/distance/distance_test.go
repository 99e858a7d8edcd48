package distance

import "testing"

func TestL2SqMatchesManualComputation(t *testing.T) {
	x := []float32{1, 2, 3}
	y := []float32{4, 6, 3}
	got := L2Sq(x, y)
	want := float32((4-1)*(4-1) + (6-2)*(6-2) + (3-3)*(3-3))
	if got != want {
		t.Errorf("L2Sq(%v, %v) = %v, want %v", x, y, got, want)
	}
}

func TestL2SqZeroForIdenticalVectors(t *testing.T) {
	x := []float32{1, -2, 3.5}
	if got := L2Sq(x, x); got != 0 {
		t.Errorf("L2Sq(x, x) = %v, want 0", got)
	}
}

func TestPairwiseL2MatchesPerPairL2Sq(t *testing.T) {
	d, n, m := 2, 2, 3
	x := []float32{0, 0, 1, 1}
	y := []float32{0, 0, 1, 0, 2, 2}

	out := make([]float32, n*m)
	PairwiseL2(d, n, x, m, y, out)

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			want := L2Sq(x[i*d:(i+1)*d], y[j*d:(j+1)*d])
			if got := out[i*m+j]; got != want {
				t.Errorf("out[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestPairwiseL2PanicsOnWrongOutputLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched output length")
		}
	}()
	PairwiseL2(2, 1, []float32{0, 0}, 1, []float32{1, 1}, make([]float32, 2))
}

func TestDefaultKernelMatchesPackageFunctions(t *testing.T) {
	k := Default()
	x := []float32{1, 2}
	y := []float32{3, 5}
	if got, want := k.L2Sq(x, y), L2Sq(x, y); got != want {
		t.Errorf("kernel.L2Sq = %v, want %v", got, want)
	}
}

func TestIsAcceleratorEnabledIsFalse(t *testing.T) {
	if IsAcceleratorEnabled() {
		t.Error("expected no accelerator kernel in this build")
	}
}
