// Package index defines the capability set shared by every index strategy
// (Flat, IVF, HNSW): dimension, running count, Add, Search, and an optional
// Train. Grounded on the original pyvecdb Index base class
// (src/Index.h), which exposes exactly this surface as a virtual interface
// with a default no-op Train.
package index

// Index is the capability set every index strategy satisfies. x is always
// a flattened row-major float32 matrix of shape (n, d); Search returns
// flattened (n, k) distances and ids.
type Index interface {
	// Dim returns the vector dimension the index was configured with.
	Dim() int
	// Ntotal returns the number of vectors currently stored.
	Ntotal() int
	// Train fits any index-specific model (e.g. IVF's k-means centroids)
	// from a training sample. Indexes with no training step (Flat, HNSW)
	// accept this as a no-op.
	Train(x []float32, n int) error
	// Add appends n vectors (flattened, row-major) to the index.
	Add(x []float32, n int) error
	// Search returns, for each of the n query rows in x, the k nearest
	// neighbors' distances and ids, both flattened row-major (n, k).
	Search(x []float32, n, k int) (dists []float32, ids []int64, err error)
}

// NopTrainer can be embedded by index strategies with no training step so
// they satisfy Index.Train without repeating the no-op body.
type NopTrainer struct{}

// Train is a no-op; Flat and HNSW have no model to fit.
func (NopTrainer) Train(x []float32, n int) error { return nil }
