package quantization

import (
	"math/rand"
	"testing"

	"github.com/vecdbgo/vecdb/internal/distance"
)

func randomVectors(r *rand.Rand, n, d int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, d)
		for j := range v {
			v[j] = r.Float32()
		}
		out[i] = v
	}
	return out
}

func TestProductQuantizerTrainRejectsIndivisibleDim(t *testing.T) {
	pq := NewProductQuantizer(3, 4)
	vectors := [][]float32{{1, 2}, {3, 4}}
	if err := pq.Train(vectors); err == nil {
		t.Error("expected error when dimension is not divisible by numSubvectors")
	}
}

func TestProductQuantizerEncodeDecodeShape(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	vectors := randomVectors(r, 64, 8)

	pq := NewProductQuantizer(4, 4)
	if err := pq.Train(vectors); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	codes := pq.Encode(vectors[0])
	if len(codes) != 4 {
		t.Fatalf("Encode returned %d codes, want 4", len(codes))
	}

	decoded := pq.Decode(codes)
	if len(decoded) != 8 {
		t.Fatalf("Decode returned dim %d, want 8", len(decoded))
	}
}

func TestProductQuantizerAsymmetricDistanceMatchesSymmetric(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	vectors := randomVectors(r, 128, 8)

	pq := NewProductQuantizer(4, 4)
	if err := pq.Train(vectors); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	query := vectors[0]
	code := pq.Encode(vectors[1])
	table := pq.DistanceTable(query)

	got := pq.AsymmetricDistanceSq(table, code)
	want := distance.L2Sq(query, pq.Decode(code))

	// Asymmetric distance sums per-subvector squared distances to the
	// exact codebook centroids, which is exactly the squared distance
	// between the query and the decoded (centroid-reconstructed) vector.
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-3 {
		t.Errorf("asymmetric distance %v diverged from decoded L2Sq %v", got, want)
	}
}

func TestProductQuantizerCompressionRatio(t *testing.T) {
	pq := NewProductQuantizer(8, 8)
	if got := pq.CompressionRatio(768); got != 768*4.0/8.0 {
		t.Errorf("CompressionRatio = %v, want %v", got, 768*4.0/8.0)
	}
}
