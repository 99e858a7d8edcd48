// Package flat implements the exhaustive brute-force index: vectors are
// appended into one dense row-major buffer and every Search computes exact
// distances against all of them.
//
// Grounded on the original pyvecdb IndexFlat (src/IndexFlat.cpp): Add
// appends raw floats and bumps ntotal; Search computes the full pairwise
// distance matrix via the distance kernel and reduces it with FindTopK;
// Reset clears the buffer. The teacher's pkg/hnsw.Index supplied the
// growable-slice and RWMutex conventions this package follows.
package flat

import (
	"sync"

	"github.com/vecdbgo/vecdb/internal/distance"
	"github.com/vecdbgo/vecdb/internal/topk"
	vecerrors "github.com/vecdbgo/vecdb/pkg/errors"
	"github.com/vecdbgo/vecdb/pkg/index"
)

// Index is a brute-force flat index over d-dimensional float32 vectors.
type Index struct {
	mu     sync.RWMutex
	d      int
	ntotal int
	data   []float32
	kernel distance.Kernel

	index.NopTrainer
}

// New creates an empty Flat index over d-dimensional vectors.
func New(d int) *Index {
	return &Index{d: d, kernel: distance.Default()}
}

// Dim returns the configured vector dimension.
func (ix *Index) Dim() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.d
}

// Ntotal returns the number of vectors currently stored.
func (ix *Index) Ntotal() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ntotal
}

// Add appends n vectors (flattened, row-major) to the index.
func (ix *Index) Add(x []float32, n int) error {
	if n == 0 {
		return nil
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := vecerrors.CheckShape(n, ix.d, len(x)); err != nil {
		return err
	}

	ix.data = append(ix.data, x[:n*ix.d]...)
	ix.ntotal += n
	return nil
}

// Search returns the k nearest neighbors (by squared L2) of each of the n
// query rows in x. If the index is empty, every result row is filled with
// the (-1.0, -1) sentinel pair, for consistency with IVF and HNSW.
func (ix *Index) Search(x []float32, n, k int) ([]float32, []int64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := vecerrors.CheckShape(n, ix.d, len(x)); err != nil {
		return nil, nil, err
	}

	dists := make([]float32, n*k)
	ids := make([]int64, n*k)

	if ix.ntotal == 0 {
		for i := range dists {
			dists[i] = -1.0
			ids[i] = -1
		}
		return dists, ids, nil
	}

	allDists := make([]float32, n*ix.ntotal)
	ix.kernel.PairwiseL2(ix.d, n, x, ix.ntotal, ix.data, allDists)

	topk.FindTopK(k, n, ix.ntotal, allDists, ids, dists)
	return dists, ids, nil
}

// Reset clears all stored vectors, returning the index to its empty state.
func (ix *Index) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.data = nil
	ix.ntotal = 0
}

var _ index.Index = (*Index)(nil)
