package quantization

import "testing"

func TestScalarQuantizerRoundTripIsApproximate(t *testing.T) {
	q := NewScalarQuantizer()
	vectors := [][]float32{
		{0, 10, -5},
		{1, 8, -4},
		{0.5, 9, -4.5},
	}
	if err := q.Train(vectors); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	for _, v := range vectors {
		codes := q.Encode(v)
		decoded := q.Decode(codes)
		for d := range v {
			diff := v[d] - decoded[d]
			if diff < 0 {
				diff = -diff
			}
			// Each dimension spans [min,max] mapped to 254 int8 levels; the
			// reconstruction error is bounded by roughly half a level.
			span := q.max[d] - q.min[d]
			if span == 0 {
				span = 1
			}
			tolerance := span/254.0*2 + 1e-3
			if diff > tolerance {
				t.Errorf("dim %d: |%v - %v| = %v exceeds tolerance %v", d, v[d], decoded[d], diff, tolerance)
			}
		}
	}
}

func TestScalarQuantizerCompressionRatio(t *testing.T) {
	q := NewScalarQuantizer()
	if got := q.CompressionRatio(768); got != 4.0 {
		t.Errorf("CompressionRatio = %v, want 4.0", got)
	}
}

func TestScalarQuantizerConstantDimensionDoesNotDivideByZero(t *testing.T) {
	q := NewScalarQuantizer()
	vectors := [][]float32{{5, 5}, {5, 5}}
	if err := q.Train(vectors); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	codes := q.Encode([]float32{5, 5})
	decoded := q.Decode(codes)
	for d, v := range decoded {
		if v != 5 {
			t.Errorf("dim %d = %v, want 5 for a constant dimension", d, v)
		}
	}
}
