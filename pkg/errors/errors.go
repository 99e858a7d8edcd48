// Package errors defines the error taxonomy shared by every index
// implementation: dimension/shape checks at the caller boundary, and the
// IVF-specific not-trained / insufficient-training conditions.
package errors

import "fmt"

// DimensionMismatchError is returned when a caller supplies a matrix whose
// column count does not match the index's configured dimension.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vecdb: dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// NewDimensionMismatch builds a DimensionMismatchError.
func NewDimensionMismatch(expected, got int) error {
	return &DimensionMismatchError{Expected: expected, Got: got}
}

// ShapeError is returned when a flattened matrix buffer's length is not a
// multiple of its stated row count/dimension.
type ShapeError struct {
	N    int
	D    int
	Len  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("vecdb: shape error: buffer of length %d does not hold %d rows of dimension %d", e.Len, e.N, e.D)
}

// NewShapeError builds a ShapeError.
func NewShapeError(n, d, length int) error {
	return &ShapeError{N: n, D: d, Len: length}
}

// CheckShape validates that a flattened row-major buffer of the given
// length holds exactly n rows of dimension d. When length divides evenly
// by n but the resulting row width isn't d, the caller supplied vectors of
// the wrong dimension and a DimensionMismatchError is returned; when length
// doesn't even divide by n, the buffer doesn't hold n rows of anything and
// a ShapeError is returned. Returns nil for n == 0.
func CheckShape(n, d, length int) error {
	if n == 0 {
		return nil
	}
	if length%n != 0 {
		return NewShapeError(n, d, length)
	}
	if got := length / n; got != d {
		return NewDimensionMismatch(d, got)
	}
	return nil
}

// NotTrainedError marks an IVF operation attempted before a successful Train.
// Per the spec it never reaches a caller as a returned error on Add (Add is
// a silent no-op) but Search callers that want the reason can check it via
// ivf.Index.IsTrained() instead of parsing errors.
type NotTrainedError struct{}

func (e *NotTrainedError) Error() string {
	return "vecdb: index is not trained"
}

// ErrNotTrained is the sentinel NotTrainedError value.
var ErrNotTrained = &NotTrainedError{}

// InsufficientTrainingError marks a Train call with fewer training vectors
// than centroids requested.
type InsufficientTrainingError struct {
	NList int
	Got   int
}

func (e *InsufficientTrainingError) Error() string {
	return fmt.Sprintf("vecdb: insufficient training data: need at least %d vectors for %d centroids, got %d", e.NList, e.NList, e.Got)
}

// NewInsufficientTraining builds an InsufficientTrainingError.
func NewInsufficientTraining(nlist, got int) error {
	return &InsufficientTrainingError{NList: nlist, Got: got}
}
