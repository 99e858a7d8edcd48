// Package hnsw implements the hierarchical navigable small-world graph
// index: a layered proximity graph searched by greedy descent through the
// upper layers followed by an ef-bounded beam search on layer 0.
//
// Grounded on the original pyvecdb IndexHNSW (src/IndexHNSW.cpp) for the
// exact algorithm (random_level, search_layer, the insert loop's neighbor
// selection and one-sided pruning), and on the teacher's pkg/hnsw package
// for the Go package shape (node table, Index struct, heap-based beam
// search via container/heap).
package hnsw

import (
	"container/heap"
	"math"
	"sync"

	"github.com/vecdbgo/vecdb/internal/distance"
	"github.com/vecdbgo/vecdb/internal/rng"
	"github.com/vecdbgo/vecdb/pkg/index"
)

const (
	// DefaultM is the target per-layer degree when unspecified.
	DefaultM = 16
	// DefaultEfConstruction is the build-time beam width when unspecified.
	DefaultEfConstruction = 200
	// DefaultEfSearch is the query-time beam width when unspecified.
	DefaultEfSearch = 50
	// defaultSeed seeds the layer-assignment RNG when New is used instead
	// of NewWithSeed.
	defaultSeed = 42
)

// Index is an HNSW graph index over d-dimensional float32 vectors.
type Index struct {
	mu sync.RWMutex

	d              int
	m              int // target degree per layer (mMax)
	mMax0          int // target degree at layer 0 (2*m)
	efConstruction int
	efSearch       int
	levelMult      float64

	data  []float32 // flattened vector store, ntotal*d
	nodes []*node   // nodes[id]

	enterPoint int64
	maxLevel   int

	kernel distance.Kernel
	rng    *rng.Source

	index.NopTrainer
}

// Config holds HNSW construction parameters. Zero values are replaced by
// the package defaults in New/NewWithConfig.
type Config struct {
	D              int
	M              int
	EfConstruction int
	EfSearch       int
	Seed           int64
}

// New creates an HNSW index with the given dimension, M, and
// efConstruction, and the package default efSearch and RNG seed.
func New(d, m, efConstruction int) *Index {
	return NewWithConfig(Config{D: d, M: m, EfConstruction: efConstruction, Seed: defaultSeed})
}

// NewWithConfig creates an HNSW index from an explicit configuration,
// applying defaults for any zero fields.
func NewWithConfig(cfg Config) *Index {
	if cfg.M == 0 {
		cfg.M = DefaultM
	}
	if cfg.EfConstruction == 0 {
		cfg.EfConstruction = DefaultEfConstruction
	}
	if cfg.EfSearch == 0 {
		cfg.EfSearch = DefaultEfSearch
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}

	return &Index{
		d:              cfg.D,
		m:              cfg.M,
		mMax0:          cfg.M * 2,
		efConstruction: cfg.EfConstruction,
		efSearch:       cfg.EfSearch,
		levelMult:      1.0 / math.Log(float64(cfg.M)),
		enterPoint:     -1,
		maxLevel:       -1,
		kernel:         distance.Default(),
		rng:            rng.New(cfg.Seed),
	}
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
	return len(ix.nodes)
}

// SetEfSearch sets the query-time beam width.
func (ix *Index) SetEfSearch(ef int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.efSearch = ef
}

// EnterPoint returns the current top-level entry point id (-1 if empty),
// exposed for the entry-point-validity property in the spec's test suite.
func (ix *Index) EnterPoint() int64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.enterPoint
}

// MaxLevel returns the highest layer any node occupies (-1 if empty).
func (ix *Index) MaxLevel() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.maxLevel
}

func (ix *Index) randomLevel() int {
	u := ix.rng.Uniform01Half()
	return int(math.Floor(-math.Log(u) * ix.levelMult))
}

func (ix *Index) vectorOf(id int64) []float32 {
	return ix.data[int(id)*ix.d : int(id+1)*ix.d]
}

func (ix *Index) distTo(id int64, q []float32) float32 {
	return ix.kernel.L2Sq(ix.vectorOf(id), q)
}

func (ix *Index) distBetween(a, b int64) float32 {
	return ix.kernel.L2Sq(ix.vectorOf(a), ix.vectorOf(b))
}

// greedy descends from start at fromLayer down to (but not including)
// toLayerExclusive, at each layer repeatedly hopping to the strictly
// closer neighbor until none improves. It returns the terminal node and
// its distance to q.
func (ix *Index) greedy(q []float32, start int64, fromLayer, toLayerExclusive int) (int64, float32) {
	cur := start
	curDist := ix.distTo(cur, q)

	for l := fromLayer; l > toLayerExclusive; l-- {
		changed := true
		for changed {
			changed = false
			for _, nb := range ix.nodes[cur].neighbors[l] {
				d := ix.distTo(nb, q)
				if d < curDist {
					curDist = d
					cur = nb
					changed = true
				}
			}
		}
	}
	return cur, curDist
}

// searchLayer performs the ef-bounded best-first expansion described in
// the spec: a min-heap frontier C and a max-heap result set W, both seeded
// with the entry point, expanding until the frontier's closest candidate
// is farther than W's current worst member. Returns W unsorted; callers
// sort as needed.
func (ix *Index) searchLayer(q []float32, entry int64, ef, layer int) []candidate {
	visited := map[int64]bool{entry: true}

	c := &minHeap{}
	w := &maxHeap{}

	d0 := ix.distTo(entry, q)
	heap.Push(c, candidate{dist: d0, id: entry})
	heap.Push(w, candidate{dist: d0, id: entry})

	for c.Len() > 0 {
		cur := heap.Pop(c).(candidate)
		if len(*w) == ef && cur.dist > w.top().dist {
			break
		}

		for _, nb := range ix.nodes[cur.id].neighbors[layer] {
			if visited[nb] {
				continue
			}
			visited[nb] = true

			dv := ix.distTo(nb, q)
			if len(*w) < ef || dv < w.top().dist {
				heap.Push(c, candidate{dist: dv, id: nb})
				heap.Push(w, candidate{dist: dv, id: nb})
				if len(*w) > ef {
					heap.Pop(w)
				}
			}
		}
	}

	return []candidate(*w)
}

var _ index.Index = (*Index)(nil)
