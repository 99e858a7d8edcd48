package quantization

import (
	"fmt"
	"math"

	"github.com/vecdbgo/vecdb/internal/distance"
)

// ProductQuantizer divides each vector into numSubvectors equal-length
// pieces and quantizes each piece independently against its own codebook
// of 2^bitsPerCode centroids, trained by KMeansPlusPlus. A vector's code is
// one byte per subvector — its codebook index — giving a compression
// ratio of (originalDim*4)/numSubvectors over raw float32 storage.
type ProductQuantizer struct {
	numSubvectors int
	bitsPerCode   int
	subvectorDim  int
	codebooks     [][][]float32 // codebooks[subvector][code] = centroid
	cfg           *Config
}

// NewProductQuantizer creates an untrained product quantizer with
// numSubvectors codebooks of 2^bitsPerCode centroids each, using
// DefaultConfig for training.
func NewProductQuantizer(numSubvectors, bitsPerCode int) *ProductQuantizer {
	return NewProductQuantizerWithConfig(numSubvectors, bitsPerCode, DefaultConfig())
}

// NewProductQuantizerWithConfig is NewProductQuantizer with an explicit
// training configuration.
func NewProductQuantizerWithConfig(numSubvectors, bitsPerCode int, cfg *Config) *ProductQuantizer {
	return &ProductQuantizer{
		numSubvectors: numSubvectors,
		bitsPerCode:   bitsPerCode,
		codebooks:     make([][][]float32, numSubvectors),
		cfg:           cfg,
	}
}

// Train fits one codebook per subvector via k-means++ over that
// subvector's slice of every training vector.
func (pq *ProductQuantizer) Train(vectors [][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("quantization: no training data provided")
	}

	dim := len(vectors[0])
	if dim%pq.numSubvectors != 0 {
		return fmt.Errorf("quantization: dimension %d not divisible by %d subvectors", dim, pq.numSubvectors)
	}
	pq.subvectorDim = dim / pq.numSubvectors
	numCodes := 1 << pq.bitsPerCode

	for sv := 0; sv < pq.numSubvectors; sv++ {
		start, end := sv*pq.subvectorDim, (sv+1)*pq.subvectorDim

		sub := make([][]float32, len(vectors))
		for i, vec := range vectors {
			sub[i] = append([]float32(nil), vec[start:end]...)
		}

		centroids, err := KMeansPlusPlus(sub, numCodes, pq.cfg)
		if err != nil {
			return fmt.Errorf("quantization: subvector %d: %w", sv, err)
		}
		pq.codebooks[sv] = centroids
	}

	return nil
}

// Encode assigns each subvector to its nearest centroid, returning one byte
// per subvector.
func (pq *ProductQuantizer) Encode(vector []float32) []byte {
	codes := make([]byte, pq.numSubvectors)

	for sv := 0; sv < pq.numSubvectors; sv++ {
		start, end := sv*pq.subvectorDim, (sv+1)*pq.subvectorDim
		sub := vector[start:end]

		best, bestDist := 0, float32(math.MaxFloat32)
		for code, centroid := range pq.codebooks[sv] {
			if d := distance.L2Sq(sub, centroid); d < bestDist {
				bestDist, best = d, code
			}
		}
		codes[sv] = byte(best)
	}

	return codes
}

// Decode reconstructs an approximate vector by concatenating each
// subvector's assigned centroid.
func (pq *ProductQuantizer) Decode(codes []byte) []float32 {
	if len(codes) != pq.numSubvectors {
		return nil
	}

	vector := make([]float32, pq.numSubvectors*pq.subvectorDim)
	for sv, code := range codes {
		if int(code) >= len(pq.codebooks[sv]) {
			continue
		}
		copy(vector[sv*pq.subvectorDim:(sv+1)*pq.subvectorDim], pq.codebooks[sv][code])
	}
	return vector
}

// DistanceTable precomputes, per subvector, the squared distance from
// query's slice to every centroid in that subvector's codebook.
func (pq *ProductQuantizer) DistanceTable(query []float32) [][]float32 {
	table := make([][]float32, pq.numSubvectors)

	for sv := 0; sv < pq.numSubvectors; sv++ {
		start, end := sv*pq.subvectorDim, (sv+1)*pq.subvectorDim
		querySub := query[start:end]

		table[sv] = make([]float32, len(pq.codebooks[sv]))
		for code, centroid := range pq.codebooks[sv] {
			table[sv][code] = distance.L2Sq(querySub, centroid)
		}
	}

	return table
}

// AsymmetricDistanceSq sums the per-subvector table entries addressed by
// code, approximating squared L2 between the query that produced table and
// the vector code encodes, in O(numSubvectors) instead of O(dim).
func (pq *ProductQuantizer) AsymmetricDistanceSq(table [][]float32, code []byte) float32 {
	if len(code) != pq.numSubvectors {
		return float32(math.MaxFloat32)
	}

	var total float32
	for sv, c := range code {
		if int(c) >= len(table[sv]) {
			return float32(math.MaxFloat32)
		}
		total += table[sv][c]
	}
	return total
}

// CompressionRatio returns the ratio of raw float32 storage to the
// compressed numSubvectors-byte code, for a vector of originalDim
// components.
func (pq *ProductQuantizer) CompressionRatio(originalDim int) float32 {
	return float32(originalDim*4) / float32(pq.numSubvectors)
}

var (
	_ Quantizer           = (*ProductQuantizer)(nil)
	_ AsymmetricQuantizer = (*ProductQuantizer)(nil)
)
