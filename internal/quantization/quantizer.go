// Package quantization provides vector compression used by the IVFPQ
// index variant and the scalar-compressed flat variant: scalar
// quantization (per-dimension min/max to int8) and product quantization
// (subvector codebooks trained by Lloyd's k-means).
//
// Grounded on the teacher's internal/quantization package for the
// Quantizer/AsymmetricQuantizer interface shape and the overall
// Train/Encode/Decode contract; narrowed to squared-L2 distance only, in
// keeping with the rest of this module.
package quantization

import "github.com/vecdbgo/vecdb/internal/rng"

// Quantizer compresses vectors into a compact byte representation and back.
type Quantizer interface {
	Train(vectors [][]float32) error
	Encode(vector []float32) []byte
	Decode(code []byte) []float32
	CompressionRatio(originalDim int) float32
}

// AsymmetricQuantizer extends Quantizer with a precomputed per-query
// distance table, avoiding a full decode on the hot search path.
type AsymmetricQuantizer interface {
	Quantizer

	// DistanceTable precomputes, for a query vector, the squared distance
	// from each of its subvectors to every centroid in the matching
	// codebook.
	DistanceTable(query []float32) [][]float32

	// AsymmetricDistanceSq returns the approximate squared L2 distance
	// between the query that produced table and an encoded vector.
	AsymmetricDistanceSq(table [][]float32, code []byte) float32
}

// Config controls quantizer training.
type Config struct {
	NumIterations int   // Lloyd's k-means iterations for codebook training
	Seed          int64 // RNG seed for reproducible centroid seeding
}

// DefaultConfig returns the package's baked-in training defaults.
func DefaultConfig() *Config {
	return &Config{NumIterations: 25, Seed: 42}
}

func newRNG(cfg *Config) *rng.Source {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return rng.New(cfg.Seed)
}
