package calibration

import (
	"sort"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// IsotonicRegression fits a non-decreasing step function to (x, y) pairs
// using the pool-adjacent-violators algorithm. Predictions between fitted
// thresholds are linearly interpolated, and inputs outside the fitted range
// clamp to the boundary values.
type IsotonicRegression struct {
	x_ []float64
	y_ []float64
}

// NewIsotonicRegression creates an unfitted IsotonicRegression.
func NewIsotonicRegression() *IsotonicRegression {
	return &IsotonicRegression{}
}

// Fit computes the isotonic fit of y against x.
func (ir *IsotonicRegression) Fit(x, y []float64) error {
	if len(x) == 0 {
		return errors.ErrEmptyData
	}
	if len(x) != len(y) {
		return errors.NewDimensionError("Fit", len(x), len(y), 0)
	}

	type pair struct{ x, y float64 }
	pairs := make([]pair, len(x))
	for i := range x {
		pairs[i] = pair{x[i], y[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].x < pairs[j].x })

	// Pool adjacent violators: merge blocks until the block means are
	// non-decreasing.
	type block struct {
		sum    float64
		weight float64
		xMin   float64
		xMax   float64
	}
	blocks := make([]block, 0, len(pairs))
	for _, p := range pairs {
		blocks = append(blocks, block{sum: p.y, weight: 1, xMin: p.x, xMax: p.x})
		for len(blocks) >= 2 {
			last := len(blocks) - 1
			if blocks[last-1].sum/blocks[last-1].weight <= blocks[last].sum/blocks[last].weight {
				break
			}
			blocks[last-1].sum += blocks[last].sum
			blocks[last-1].weight += blocks[last].weight
			blocks[last-1].xMax = blocks[last].xMax
			blocks = blocks[:last]
		}
	}

	ir.x_ = make([]float64, 0, 2*len(blocks))
	ir.y_ = make([]float64, 0, 2*len(blocks))
	for _, b := range blocks {
		mean := b.sum / b.weight
		ir.x_ = append(ir.x_, b.xMin)
		ir.y_ = append(ir.y_, mean)
		if b.xMax > b.xMin {
			ir.x_ = append(ir.x_, b.xMax)
			ir.y_ = append(ir.y_, mean)
		}
	}

	return nil
}

// Predict evaluates the fitted step function at each value.
func (ir *IsotonicRegression) Predict(values []float64) ([]float64, error) {
	if len(ir.x_) == 0 {
		return nil, errors.NewNotFittedError("IsotonicRegression", "Predict")
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = ir.interpolate(v)
	}
	return out, nil
}

func (ir *IsotonicRegression) interpolate(v float64) float64 {
	n := len(ir.x_)
	if v <= ir.x_[0] {
		return ir.y_[0]
	}
	if v >= ir.x_[n-1] {
		return ir.y_[n-1]
	}

	idx := sort.SearchFloat64s(ir.x_, v)
	if ir.x_[idx] == v {
		return ir.y_[idx]
	}

	x0, x1 := ir.x_[idx-1], ir.x_[idx]
	y0, y1 := ir.y_[idx-1], ir.y_[idx]
	if x1 == x0 {
		return y1
	}
	return y0 + (y1-y0)*(v-x0)/(x1-x0)
}
