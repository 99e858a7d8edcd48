// Package topk implements the per-row top-k selection used by Flat and IVF
// to pick the k smallest distances out of a dense distance matrix. Each row
// is sorted in full and then cut to its first k entries.
//
// Grounded on the original pyvecdb C++ core (src/Utils.cpp): find_top_k
// builds a (distance, index) pair per column, partial_sorts when k < m or
// fully sorts otherwise, and pads the tail with (-1, -1) when k exceeds the
// number of candidates.
package topk

import "sort"

// FindTopK scans the n*m distance matrix d (row-major, n rows of m
// columns) and, for each row, writes the k smallest distances in ascending
// order (ties broken by smaller column index) into distsOut and the
// corresponding column indices into idsOut. Both output slices must have
// length n*k. If k > m, the surplus slots in each row are filled with
// distance -1.0 and id -1.
func FindTopK(k, n, m int, d []float32, idsOut []int64, distsOut []float32) {
	type cand struct {
		dist float32
		idx  int
	}

	row := make([]cand, m)
	for i := 0; i < n; i++ {
		src := d[i*m : (i+1)*m]
		for j := 0; j < m; j++ {
			row[j] = cand{dist: src[j], idx: j}
		}

		sort.Slice(row, func(a, b int) bool {
			if row[a].dist != row[b].dist {
				return row[a].dist < row[b].dist
			}
			return row[a].idx < row[b].idx
		})

		outDists := distsOut[i*k : (i+1)*k]
		outIDs := idsOut[i*k : (i+1)*k]

		limit := k
		if limit > m {
			limit = m
		}
		for j := 0; j < limit; j++ {
			outDists[j] = row[j].dist
			outIDs[j] = int64(row[j].idx)
		}
		for j := limit; j < k; j++ {
			outDists[j] = -1.0
			outIDs[j] = -1
		}
	}
}
