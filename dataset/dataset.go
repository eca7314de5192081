// Package dataset provides in-memory labeled datasets and synthetic data
// generators for classifier evaluation.
//
// A Dataset pairs a fixed-dimension feature matrix with integer class labels.
// It is read-only once constructed: the sweep evaluator and the splitters
// consume it but never mutate it.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Dataset is an immutable collection of feature vectors paired with
// integer class labels. Labels are stored as a column vector of float64
// holding integral values, matching the representation the estimators use.
type Dataset struct {
	x *mat.Dense
	y *mat.VecDense
}

// New validates the feature/label pair and wraps it in a Dataset.
// The matrices are used directly; callers must not modify them afterwards.
func New(X *mat.Dense, y *mat.VecDense) (*Dataset, error) {
	if X == nil || y == nil {
		return nil, errors.NewValueError("dataset.New", "nil features or labels")
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("dataset.New", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError("dataset.New", r, y.Len(), 0)
	}

	return &Dataset{x: X, y: y}, nil
}

// FromMatrix copies an arbitrary feature matrix and label vector into a
// fresh Dataset, for callers holding transformed features (a scaler output,
// for example) rather than a *mat.Dense.
func FromMatrix(X mat.Matrix, y *mat.VecDense) (*Dataset, error) {
	if X == nil || y == nil {
		return nil, errors.NewValueError("dataset.FromMatrix", "nil features or labels")
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("dataset.FromMatrix", "empty data", errors.ErrEmptyData)
	}

	xCopy := mat.NewDense(r, c, nil)
	xCopy.Copy(X)
	yCopy := mat.NewVecDense(y.Len(), nil)
	yCopy.CopyVec(y)
	return New(xCopy, yCopy)
}

// NSamples returns the number of samples.
func (d *Dataset) NSamples() int {
	r, _ := d.x.Dims()
	return r
}

// NFeatures returns the feature dimension.
func (d *Dataset) NFeatures() int {
	_, c := d.x.Dims()
	return c
}

// Features returns the feature matrix. Callers must treat it as read-only.
func (d *Dataset) Features() mat.Matrix {
	return d.x
}

// Labels returns the label vector. Callers must treat it as read-only.
func (d *Dataset) Labels() *mat.VecDense {
	return d.y
}

// NClasses returns the number of distinct labels present.
func (d *Dataset) NClasses() int {
	seen := make(map[float64]struct{})
	for i := 0; i < d.y.Len(); i++ {
		seen[d.y.AtVec(i)] = struct{}{}
	}
	return len(seen)
}

// Subset copies the rows at the given indices into fresh matrices.
// The sweep evaluator uses this to materialize train and test partitions.
func (d *Dataset) Subset(indices []int) (*mat.Dense, *mat.VecDense) {
	_, cols := d.x.Dims()

	xSub := mat.NewDense(len(indices), cols, nil)
	ySub := mat.NewVecDense(len(indices), nil)

	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			xSub.Set(i, j, d.x.At(idx, j))
		}
		ySub.SetVec(i, d.y.AtVec(idx))
	}

	return xSub, ySub
}
