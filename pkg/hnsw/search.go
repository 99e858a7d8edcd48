package hnsw

import (
	"sort"

	"github.com/vecdbgo/vecdb/pkg/errors"
)

// Search returns the k nearest neighbors of each of the n query rows in x.
// For each query: greedily descend from the entry point down to just
// above layer 0, then run an ef-bounded beam search on layer 0 and return
// its closest k members. If the index is empty, every result row is the
// (-1.0, -1) sentinel pair; if fewer than k candidates were found, the
// remaining slots are padded the same way.
func (ix *Index) Search(x []float32, n, k int) ([]float32, []int64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := errors.CheckShape(n, ix.d, len(x)); err != nil {
		return nil, nil, err
	}

	dists := make([]float32, n*k)
	ids := make([]int64, n*k)

	if len(ix.nodes) == 0 {
		for i := range dists {
			dists[i] = -1.0
			ids[i] = -1
		}
		return dists, ids, nil
	}

	for i := 0; i < n; i++ {
		q := x[i*ix.d : (i+1)*ix.d]

		cur, _ := ix.greedy(q, ix.enterPoint, ix.maxLevel, 0)
		w := ix.searchLayer(q, cur, ix.efSearch, 0)

		sort.Slice(w, func(a, b int) bool {
			if w[a].dist != w[b].dist {
				return w[a].dist < w[b].dist
			}
			return w[a].id < w[b].id
		})

		row := dists[i*k : (i+1)*k]
		rowIDs := ids[i*k : (i+1)*k]

		limit := k
		if limit > len(w) {
			limit = len(w)
		}
		for j := 0; j < limit; j++ {
			row[j] = w[j].dist
			rowIDs[j] = w[j].id
		}
		for j := limit; j < k; j++ {
			row[j] = -1.0
			rowIDs[j] = -1
		}
	}

	return dists, ids, nil
}
