package calibration

import (
	"math"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// plattScaler fits the sigmoid p = 1 / (1 + exp(a*s + b)) to classifier
// scores by minimizing cross-entropy with gradient descent. Targets use
// Platt's smoothing so the fit does not saturate on separable data.
type plattScaler struct {
	a       float64
	b       float64
	maxIter int
	tol     float64
	fitted  bool
}

func newPlattScaler() *plattScaler {
	return &plattScaler{
		a:       -1,
		maxIter: 1000,
		tol:     1e-7,
	}
}

// Fit estimates the sigmoid parameters from scores and 0/1 targets.
func (p *plattScaler) Fit(scores []float64, targets []int) error {
	if len(scores) == 0 {
		return errors.ErrEmptyData
	}
	if len(scores) != len(targets) {
		return errors.NewDimensionError("Fit", len(scores), len(targets), 0)
	}

	nPos, nNeg := 0, 0
	for _, t := range targets {
		if t == 1 {
			nPos++
		} else {
			nNeg++
		}
	}

	// Platt's smoothed targets.
	tPos := (float64(nPos) + 1) / (float64(nPos) + 2)
	tNeg := 1 / (float64(nNeg) + 2)
	smoothed := make([]float64, len(targets))
	for i, t := range targets {
		if t == 1 {
			smoothed[i] = tPos
		} else {
			smoothed[i] = tNeg
		}
	}

	learningRate := 0.1
	n := float64(len(scores))

	for iter := 0; iter < p.maxIter; iter++ {
		gradA, gradB := 0.0, 0.0
		for i, s := range scores {
			pred := 1.0 / (1.0 + errors.StabilizeExp(p.a*s+p.b))
			residual := pred - smoothed[i]
			// d pred / d(a*s+b) = -pred*(1-pred), folded into the residual sign
			gradA -= residual * s
			gradB -= residual
		}
		gradA /= n
		gradB /= n

		p.a -= learningRate * gradA
		p.b -= learningRate * gradB

		if math.Abs(gradA) < p.tol && math.Abs(gradB) < p.tol {
			break
		}
	}

	p.fitted = true
	return nil
}

// Predict maps scores through the fitted sigmoid.
func (p *plattScaler) Predict(scores []float64) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = 1.0 / (1.0 + errors.StabilizeExp(p.a*s+p.b))
	}
	return out
}
