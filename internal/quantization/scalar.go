package quantization

import (
	"fmt"
	"math"
)

// ScalarQuantizer compresses float32 vectors to int8 codes, one scale/offset
// pair per dimension (rather than one pair shared across the whole
// vector), so that dimensions with different natural ranges quantize
// independently.
type ScalarQuantizer struct {
	dim    int
	min    []float32
	max    []float32
	scale  []float32
	offset []float32
}

// NewScalarQuantizer creates an untrained scalar quantizer.
func NewScalarQuantizer() *ScalarQuantizer {
	return &ScalarQuantizer{}
}

// Train computes per-dimension min/max and the resulting scale/offset that
// map [min_d, max_d] onto the int8 range [-127, 127].
func (q *ScalarQuantizer) Train(vectors [][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("quantization: no training data provided")
	}

	dim := len(vectors[0])
	q.dim = dim
	q.min = make([]float32, dim)
	q.max = make([]float32, dim)
	q.scale = make([]float32, dim)
	q.offset = make([]float32, dim)

	for d := 0; d < dim; d++ {
		q.min[d] = float32(math.MaxFloat32)
		q.max[d] = float32(-math.MaxFloat32)
	}

	for _, vec := range vectors {
		for d := 0; d < dim; d++ {
			if vec[d] < q.min[d] {
				q.min[d] = vec[d]
			}
			if vec[d] > q.max[d] {
				q.max[d] = vec[d]
			}
		}
	}

	for d := 0; d < dim; d++ {
		valueRange := q.max[d] - q.min[d]
		if valueRange == 0 {
			valueRange = 1.0
		}
		q.scale[d] = 254.0 / valueRange
		q.offset[d] = -127.0 - q.min[d]*q.scale[d]
	}

	return nil
}

// Encode quantizes vector to one int8 code per dimension, packed as bytes.
func (q *ScalarQuantizer) Encode(vector []float32) []byte {
	codes := make([]byte, len(vector))
	for d, val := range vector {
		scaled := val*q.scale[d] + q.offset[d]
		if scaled < -127 {
			scaled = -127
		} else if scaled > 127 {
			scaled = 127
		}
		codes[d] = byte(int8(math.Round(float64(scaled))))
	}
	return codes
}

// Decode reconstructs an approximate float32 vector from codes.
func (q *ScalarQuantizer) Decode(codes []byte) []float32 {
	vector := make([]float32, len(codes))
	for d, c := range codes {
		vector[d] = (float32(int8(c)) - q.offset[d]) / q.scale[d]
	}
	return vector
}

// CompressionRatio returns the memory reduction of int8 codes over float32
// components (always 4x, independent of originalDim).
func (q *ScalarQuantizer) CompressionRatio(originalDim int) float32 {
	return 4.0
}

var _ Quantizer = (*ScalarQuantizer)(nil)
