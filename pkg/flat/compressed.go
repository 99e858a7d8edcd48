package flat

import (
	"sync"

	"github.com/vecdbgo/vecdb/internal/distance"
	"github.com/vecdbgo/vecdb/internal/quantization"
	"github.com/vecdbgo/vecdb/internal/topk"
	vecerrors "github.com/vecdbgo/vecdb/pkg/errors"
	"github.com/vecdbgo/vecdb/pkg/index"
)

// CompressedIndex is a brute-force index like Index, but stores each vector
// as a per-dimension int8 code via quantization.ScalarQuantizer instead of
// raw float32 — a 4x memory reduction at the cost of decode-then-compare
// search. It is additive to Index: the same Add/Search capability set, but
// gated by an explicit Train step that fits the quantizer's per-dimension
// scale/offset, in the same train-then-mutate shape as ivf.Index.
type CompressedIndex struct {
	mu     sync.RWMutex
	d      int
	ntotal int
	codes  []byte // ntotal*d bytes, one per dimension

	quantizer *quantization.ScalarQuantizer
	isTrained bool

	kernel distance.Kernel
}

// NewCompressed creates an untrained scalar-quantized flat index over
// d-dimensional vectors.
func NewCompressed(d int) *CompressedIndex {
	return &CompressedIndex{
		d:         d,
		quantizer: quantization.NewScalarQuantizer(),
		kernel:    distance.Default(),
	}
}

func (ix *CompressedIndex) Dim() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.d
}

func (ix *CompressedIndex) Ntotal() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ntotal
}

// IsTrained reports whether Train has fit the scalar quantizer.
func (ix *CompressedIndex) IsTrained() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.isTrained
}

// Train fits the per-dimension min/max scalar quantizer from the n vectors
// in x. Unlike ivf.Index, there is no minimum sample size; any non-empty
// training set is accepted.
func (ix *CompressedIndex) Train(x []float32, n int) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := vecerrors.CheckShape(n, ix.d, len(x)); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	rows := make([][]float32, n)
	for i := 0; i < n; i++ {
		rows[i] = x[i*ix.d : (i+1)*ix.d]
	}
	if err := ix.quantizer.Train(rows); err != nil {
		return err
	}
	ix.isTrained = true
	return nil
}

// Add encodes and appends n vectors. Requires a successful Train; otherwise
// a silent no-op, matching ivf.Index's NotTrained handling.
func (ix *CompressedIndex) Add(x []float32, n int) error {
	if n == 0 {
		return nil
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := vecerrors.CheckShape(n, ix.d, len(x)); err != nil {
		return err
	}
	if !ix.isTrained {
		return nil
	}

	for i := 0; i < n; i++ {
		ix.codes = append(ix.codes, ix.quantizer.Encode(x[i*ix.d:(i+1)*ix.d])...)
	}
	ix.ntotal += n
	return nil
}

// Search decodes every stored code back to float32 and ranks by exact
// squared L2 against the (uncompressed) query. Requires a successful
// Train; otherwise every result row is the (-1.0, -1) sentinel.
func (ix *CompressedIndex) Search(x []float32, n, k int) ([]float32, []int64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := vecerrors.CheckShape(n, ix.d, len(x)); err != nil {
		return nil, nil, err
	}

	dists := make([]float32, n*k)
	ids := make([]int64, n*k)

	if !ix.isTrained || ix.ntotal == 0 {
		for i := range dists {
			dists[i] = -1.0
			ids[i] = -1
		}
		return dists, ids, nil
	}

	decoded := make([]float32, ix.ntotal*ix.d)
	for i := 0; i < ix.ntotal; i++ {
		copy(decoded[i*ix.d:(i+1)*ix.d], ix.quantizer.Decode(ix.codes[i*ix.d:(i+1)*ix.d]))
	}

	allDists := make([]float32, n*ix.ntotal)
	ix.kernel.PairwiseL2(ix.d, n, x, ix.ntotal, decoded, allDists)

	topk.FindTopK(k, n, ix.ntotal, allDists, ids, dists)
	return dists, ids, nil
}

var _ index.Index = (*CompressedIndex)(nil)
