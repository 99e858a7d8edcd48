package quantization

import (
	"fmt"
	"math"

	"github.com/vecdbgo/vecdb/internal/distance"
)

// KMeansPlusPlus clusters vectors into k centroids, seeding via k-means++
// (each successive centroid chosen with probability proportional to its
// squared distance to the nearest existing centroid) and refining with
// cfg.NumIterations rounds of Lloyd's algorithm. A cluster left empty by an
// iteration's assignment step retains its previous centroid.
func KMeansPlusPlus(vectors [][]float32, k int, cfg *Config) ([][]float32, error) {
	if len(vectors) < k {
		return nil, fmt.Errorf("quantization: not enough vectors (%d) for %d clusters", len(vectors), k)
	}
	if len(vectors[0]) == 0 {
		return nil, fmt.Errorf("quantization: empty vectors")
	}

	dim := len(vectors[0])
	r := newRNG(cfg)
	centroids := make([][]float32, k)

	first := r.Intn(len(vectors))
	centroids[0] = append([]float32(nil), vectors[first]...)

	for c := 1; c < k; c++ {
		dists := make([]float32, len(vectors))
		var total float32
		for i, v := range vectors {
			min := float32(math.MaxFloat32)
			for j := 0; j < c; j++ {
				if d := distance.L2Sq(v, centroids[j]); d < min {
					min = d
				}
			}
			dists[i] = min
			total += min
		}

		if total > 0 {
			target := r.Float32() * total
			var cum float32
			chosen := len(vectors) - 1
			for i, d := range dists {
				cum += d
				if cum >= target {
					chosen = i
					break
				}
			}
			centroids[c] = append([]float32(nil), vectors[chosen]...)
		} else {
			centroids[c] = append([]float32(nil), vectors[r.Intn(len(vectors))]...)
		}
	}

	iterations := 25
	if cfg != nil && cfg.NumIterations > 0 {
		iterations = cfg.NumIterations
	}

	for iter := 0; iter < iterations; iter++ {
		sums := make([][]float32, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float32, dim)
		}

		for _, v := range vectors {
			best, bestDist := 0, float32(math.MaxFloat32)
			for c, centroid := range centroids {
				if d := distance.L2Sq(v, centroid); d < bestDist {
					bestDist, best = d, c
				}
			}
			counts[best]++
			for d := 0; d < dim; d++ {
				sums[best][d] += v[d]
			}
		}

		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			newCentroid := make([]float32, dim)
			for d := 0; d < dim; d++ {
				newCentroid[d] = sums[c][d] / float32(counts[c])
			}
			centroids[c] = newCentroid
		}
	}

	return centroids, nil
}

// ComputeRecall computes mean recall@k between parallel ground-truth and
// result id lists.
func ComputeRecall(groundTruth, results [][]int64, k int) float32 {
	if len(groundTruth) != len(results) || len(groundTruth) == 0 {
		return 0
	}

	var total float32
	for i := range groundTruth {
		gt := groundTruth[i]
		res := results[i]
		if len(gt) == 0 {
			continue
		}
		if len(gt) > k {
			gt = gt[:k]
		}
		if len(res) > k {
			res = res[:k]
		}

		gtSet := make(map[int64]bool, len(gt))
		for _, id := range gt {
			gtSet[id] = true
		}

		var matches int
		for _, id := range res {
			if gtSet[id] {
				matches++
			}
		}
		total += float32(matches) / float32(len(gt))
	}

	return total / float32(len(groundTruth))
}
