// Package distance implements the squared-L2 distance kernel shared by
// every index: a single-pair primitive used by HNSW's graph walk, and a
// pairwise-matrix primitive used by Flat and IVF's candidate refinement.
//
// Grounded on the original pyvecdb C++ core (src/Distance.cpp): l2_sq sums
// squared per-dimension differences with no square root, and
// compute_l2_distance fills a caller-allocated n*m matrix by repeated calls
// to l2_sq. is_cuda_enabled there becomes IsAcceleratorEnabled here — no
// accelerator kernel ships in this module, but the Kernel interface leaves
// a seam for one.
package distance

import "fmt"

// L2Sq returns the squared Euclidean distance between x and y. Both slices
// must have the same length; callers are expected to have already checked
// dimension agreement at the index boundary.
func L2Sq(x, y []float32) float32 {
	var sum float32
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return sum
}

// PairwiseL2 computes out[i*m+j] = L2Sq(x[i*d:(i+1)*d], y[j*d:(j+1)*d]) for
// all i in [0,n) and j in [0,m). out must have length n*m; it is the
// caller's buffer, never reallocated here.
func PairwiseL2(d, n int, x []float32, m int, y []float32, out []float32) {
	if len(out) != n*m {
		panic(fmt.Sprintf("distance: out has length %d, want %d", len(out), n*m))
	}
	for i := 0; i < n; i++ {
		xi := x[i*d : (i+1)*d]
		row := out[i*m : (i+1)*m]
		for j := 0; j < m; j++ {
			row[j] = L2Sq(xi, y[j*d:(j+1)*d])
		}
	}
}

// Kernel is the distance-kernel contract a swap-in accelerator would
// implement in place of cpuKernel. The core never depends on a concrete
// kernel type, only on this interface, so a GPU or SIMD-accelerated
// implementation can be substituted without touching Flat/IVF/HNSW.
type Kernel interface {
	L2Sq(x, y []float32) float32
	PairwiseL2(d, n int, x []float32, m int, y []float32, out []float32)
}

type cpuKernel struct{}

func (cpuKernel) L2Sq(x, y []float32) float32 { return L2Sq(x, y) }

func (cpuKernel) PairwiseL2(d, n int, x []float32, m int, y []float32, out []float32) {
	PairwiseL2(d, n, x, m, y, out)
}

// CPU is the reference kernel implementation. It is what Default returns
// today; a future accelerator build would swap this for another Kernel.
var CPU Kernel = cpuKernel{}

// Default returns the kernel used by every index unless overridden.
func Default() Kernel { return CPU }

// IsAcceleratorEnabled reports whether a hardware-accelerated kernel is
// compiled into this build. No accelerator ships in this module, so this
// always reports false; it exists so the host-facing contract in the spec
// (is_accelerator_enabled) is satisfiable without a breaking API change
// once one does.
func IsAcceleratorEnabled() bool { return false }
