package ivf

import (
	"sync"

	"github.com/vecdbgo/vecdb/internal/distance"
	"github.com/vecdbgo/vecdb/internal/quantization"
	"github.com/vecdbgo/vecdb/internal/rng"
	"github.com/vecdbgo/vecdb/internal/topk"
	"github.com/vecdbgo/vecdb/pkg/errors"
	"github.com/vecdbgo/vecdb/pkg/flat"
	"github.com/vecdbgo/vecdb/pkg/index"
)

// IVFPQ is the coarse-quantized index with product-quantized cell bodies:
// the same inverted-list skeleton as Index, but each cell stores compact PQ
// codes instead of raw float32 vectors, and search scores candidates via
// asymmetric distance against a per-query distance table instead of exact
// L2. It is additive to plain IVF — never invoked by Index — and exists to
// exercise the quantization package from a second angle beyond
// ScalarQuantizer-compressed Flat bodies.
type IVFPQ struct {
	mu     sync.RWMutex
	d      int
	nlist  int
	nprobe int
	ntotal int

	quantizer *flat.Index
	isTrained bool

	pq        *quantization.ProductQuantizer
	pqTrained bool

	listCodes [][]byte // listCodes[c] is the concatenation of each member's PQ code
	listIDs   [][]int64

	kernel distance.Kernel
	rng    *rng.Source
}

// NewIVFPQ creates an untrained IVFPQ index. numSubvectors and bitsPerCode
// configure the product quantizer trained alongside the coarse centroids.
func NewIVFPQ(d, nlist, numSubvectors, bitsPerCode int) *IVFPQ {
	return &IVFPQ{
		d:         d,
		nlist:     nlist,
		nprobe:    1,
		quantizer: flat.New(d),
		pq:        quantization.NewProductQuantizer(numSubvectors, bitsPerCode),
		listCodes: make([][]byte, nlist),
		listIDs:   make([][]int64, nlist),
		kernel:    distance.Default(),
		rng:       rng.New(defaultSeed),
	}
}

func (ix *IVFPQ) Dim() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.d
}

func (ix *IVFPQ) Ntotal() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ntotal
}

// IsTrained reports whether both the coarse quantizer and the product
// quantizer have completed training.
func (ix *IVFPQ) IsTrained() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.isTrained && ix.pqTrained
}

// SetNProbe sets the number of cells probed per query.
func (ix *IVFPQ) SetNProbe(nprobe int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.nprobe = nprobe
}

// Train fits the coarse centroids exactly as plain IVF does, then trains
// the product quantizer's codebooks over the same training set.
func (ix *IVFPQ) Train(x []float32, n int) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := errors.CheckShape(n, ix.d, len(x)); err != nil {
		return err
	}
	if n < ix.nlist {
		return nil
	}

	d := ix.d
	nlist := ix.nlist

	perm := ix.rng.Perm(n)
	centroids := make([]float32, nlist*d)
	for c := 0; c < nlist; c++ {
		src := x[perm[c]*d : (perm[c]+1)*d]
		copy(centroids[c*d:(c+1)*d], src)
	}

	assignIDs := make([]int64, n)

	for iter := 0; iter < kmeansIterations; iter++ {
		ix.quantizer.Reset()
		if err := ix.quantizer.Add(centroids, nlist); err != nil {
			return err
		}

		for i := 0; i < n; i++ {
			_, ids, err := ix.quantizer.Search(x[i*d:(i+1)*d], 1, 1)
			if err != nil {
				return err
			}
			assignIDs[i] = ids[0]
		}

		newCentroids := make([]float32, nlist*d)
		counts := make([]int, nlist)
		for i := 0; i < n; i++ {
			c := assignIDs[i]
			if c < 0 {
				continue
			}
			for j := 0; j < d; j++ {
				newCentroids[int(c)*d+j] += x[i*d+j]
			}
			counts[c]++
		}
		for c := 0; c < nlist; c++ {
			if counts[c] > 0 {
				inv := 1.0 / float32(counts[c])
				for j := 0; j < d; j++ {
					newCentroids[c*d+j] *= inv
				}
			} else {
				copy(newCentroids[c*d:(c+1)*d], centroids[c*d:(c+1)*d])
			}
		}
		centroids = newCentroids
	}

	ix.quantizer.Reset()
	if err := ix.quantizer.Add(centroids, nlist); err != nil {
		return err
	}
	ix.isTrained = true

	rows := make([][]float32, n)
	for i := 0; i < n; i++ {
		rows[i] = x[i*d : (i+1)*d]
	}
	if err := ix.pq.Train(rows); err != nil {
		return err
	}
	ix.pqTrained = true

	return nil
}

// Add routes each vector to its nearest coarse cell as plain IVF does, but
// stores its PQ code instead of its raw body.
func (ix *IVFPQ) Add(x []float32, n int) error {
	if n == 0 {
		return nil
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := errors.CheckShape(n, ix.d, len(x)); err != nil {
		return err
	}
	if !ix.isTrained || !ix.pqTrained {
		return nil
	}

	d := ix.d
	for i := 0; i < n; i++ {
		vec := x[i*d : (i+1)*d]
		_, ids, err := ix.quantizer.Search(vec, 1, 1)
		if err != nil {
			return err
		}
		cell := ids[0]
		if cell < 0 || int(cell) >= ix.nlist {
			continue
		}
		ix.listCodes[cell] = append(ix.listCodes[cell], ix.pq.Encode(vec)...)
		ix.listIDs[cell] = append(ix.listIDs[cell], int64(ix.ntotal+i))
	}
	ix.ntotal += n
	return nil
}

// Search probes the nprobe nearest cells and scores every candidate by
// asymmetric distance against a per-query distance table, rather than
// decoding codes back to float32.
func (ix *IVFPQ) Search(x []float32, n, k int) ([]float32, []int64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := errors.CheckShape(n, ix.d, len(x)); err != nil {
		return nil, nil, err
	}

	distsOut := make([]float32, n*k)
	idsOut := make([]int64, n*k)

	if !ix.isTrained || !ix.pqTrained {
		for i := range distsOut {
			distsOut[i] = -1.0
			idsOut[i] = -1
		}
		return distsOut, idsOut, nil
	}

	nprobe := ix.nprobe
	if nprobe > ix.nlist {
		nprobe = ix.nlist
	}

	for i := 0; i < n; i++ {
		query := x[i*ix.d : (i+1)*ix.d]

		_, cellIDs, err := ix.quantizer.Search(query, 1, nprobe)
		if err != nil {
			return nil, nil, err
		}

		table := ix.pq.DistanceTable(query)

		var candIDs []int64
		var candDists []float32
		for _, c := range cellIDs {
			if c < 0 || int(c) >= ix.nlist {
				continue
			}
			ids := ix.listIDs[c]
			codes := ix.listCodes[c]
			numSub := len(table)
			if numSub == 0 || len(ids) == 0 {
				continue
			}
			codeStride := len(codes) / len(ids)
			for j, id := range ids {
				code := codes[j*codeStride : (j+1)*codeStride]
				candIDs = append(candIDs, id)
				candDists = append(candDists, ix.pq.AsymmetricDistanceSq(table, code))
			}
		}

		row := distsOut[i*k : (i+1)*k]
		rowIDs := idsOut[i*k : (i+1)*k]

		nCand := len(candIDs)
		if nCand == 0 {
			for j := 0; j < k; j++ {
				row[j] = -1.0
				rowIDs[j] = -1
			}
			continue
		}

		localIDs := make([]int64, k)
		topk.FindTopK(k, 1, nCand, candDists, localIDs, row)

		for j := 0; j < k; j++ {
			if localIDs[j] < 0 {
				rowIDs[j] = -1
			} else {
				rowIDs[j] = candIDs[localIDs[j]]
			}
		}
	}

	return distsOut, idsOut, nil
}

var _ index.Index = (*IVFPQ)(nil)
