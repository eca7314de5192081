package linear_model

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Perceptron is a linear classifier trained with the perceptron update rule.
// Multi-class problems are handled one-vs-all: one weight vector per class,
// prediction by highest score.
type Perceptron struct {
	model.BaseEstimator

	eta0        float64 // learning rate
	maxIter     int
	tol         float64 // stop when the epoch error rate improves by less than tol
	shuffle     bool
	randomState int64

	coef_      [][]float64
	intercept_ []float64
	classes_   []int
	nClasses_  int
	nFeatures_ int
	nIter_     int
}

// PerceptronOption configures a Perceptron.
type PerceptronOption func(*Perceptron)

// WithPerceptronEta0 sets the learning rate.
func WithPerceptronEta0(eta float64) PerceptronOption {
	return func(p *Perceptron) {
		p.eta0 = eta
	}
}

// WithPerceptronMaxIter sets the maximum number of training epochs.
func WithPerceptronMaxIter(maxIter int) PerceptronOption {
	return func(p *Perceptron) {
		p.maxIter = maxIter
	}
}

// WithPerceptronTol sets the early-stopping tolerance on the epoch error rate.
func WithPerceptronTol(tol float64) PerceptronOption {
	return func(p *Perceptron) {
		p.tol = tol
	}
}

// WithPerceptronShuffle controls whether samples are reshuffled each epoch.
func WithPerceptronShuffle(shuffle bool) PerceptronOption {
	return func(p *Perceptron) {
		p.shuffle = shuffle
	}
}

// WithPerceptronRandomState fixes the shuffling seed.
func WithPerceptronRandomState(seed int64) PerceptronOption {
	return func(p *Perceptron) {
		p.randomState = seed
	}
}

// NewPerceptron creates a Perceptron with scikit-learn compatible defaults.
func NewPerceptron(options ...PerceptronOption) *Perceptron {
	p := &Perceptron{
		eta0:        1.0,
		maxIter:     1000,
		tol:         1e-3,
		shuffle:     true,
		randomState: -1,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Fit trains the perceptron from scratch on X and y. Previous state is
// discarded, so a retrained instance carries nothing over between splits.
func (p *Perceptron) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	if rows != yRows {
		return errors.NewDimensionError("Fit", rows, yRows, 0)
	}

	p.reset()
	p.nFeatures_ = cols
	p.classes_ = extractClassLabels(y)
	p.nClasses_ = len(p.classes_)

	p.coef_ = make([][]float64, p.nClasses_)
	p.intercept_ = make([]float64, p.nClasses_)
	for c := range p.coef_ {
		p.coef_[c] = make([]float64, cols)
	}

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	var r *rand.Rand
	if p.shuffle {
		seed := p.randomState
		if seed < 0 {
			seed = int64(rand.Uint64() >> 1)
		}
		r = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}

	prevErrRate := 1.0
	converged := false

	for epoch := 0; epoch < p.maxIter; epoch++ {
		if r != nil {
			r.Shuffle(rows, func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		mistakes := 0
		for _, i := range order {
			xi := mat.Row(nil, i, X)
			yi := int(y.At(i, 0))
			if p.updateSample(xi, yi) {
				mistakes++
			}
		}
		p.nIter_ = epoch + 1

		errRate := float64(mistakes) / float64(rows)
		if mistakes == 0 || prevErrRate-errRate < p.tol && epoch > 0 {
			converged = true
			break
		}
		prevErrRate = errRate
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Perceptron", p.nIter_, "Maximum number of iterations reached"))
	}

	p.SetFitted()
	return nil
}

// updateSample applies the perceptron rule for one sample and reports
// whether the sample was misclassified.
func (p *Perceptron) updateSample(x []float64, y int) bool {
	trueIdx := classIndex(p.classes_, y)
	if trueIdx == -1 {
		return false
	}

	predIdx := p.argmaxScore(x)
	if predIdx == trueIdx {
		return false
	}

	// Promote the true class, demote the predicted one.
	for j, xj := range x {
		p.coef_[trueIdx][j] += p.eta0 * xj
		p.coef_[predIdx][j] -= p.eta0 * xj
	}
	p.intercept_[trueIdx] += p.eta0
	p.intercept_[predIdx] -= p.eta0
	return true
}

func (p *Perceptron) argmaxScore(x []float64) int {
	best := 0
	bestScore := p.score(0, x)
	for c := 1; c < p.nClasses_; c++ {
		if s := p.score(c, x); s > bestScore {
			bestScore = s
			best = c
		}
	}
	return best
}

func (p *Perceptron) score(c int, x []float64) float64 {
	s := p.intercept_[c]
	for j, xj := range x {
		s += p.coef_[c][j] * xj
	}
	return s
}

// Predict returns the highest-scoring class for each row of X.
func (p *Perceptron) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Perceptron", "Predict")
	}

	rows, cols := X.Dims()
	if cols != p.nFeatures_ {
		return nil, errors.NewDimensionError("Predict", p.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		xi := mat.Row(nil, i, X)
		predictions.Set(i, 0, float64(p.classes_[p.argmaxScore(xi)]))
	}
	return predictions, nil
}

// Classes returns the class labels seen during Fit, in ascending order.
func (p *Perceptron) Classes() []int {
	out := make([]int, len(p.classes_))
	copy(out, p.classes_)
	return out
}

// NIterations returns the number of completed training epochs.
func (p *Perceptron) NIterations() int {
	return p.nIter_
}

func (p *Perceptron) reset() {
	p.coef_ = nil
	p.intercept_ = nil
	p.classes_ = nil
	p.nClasses_ = 0
	p.nIter_ = 0
	p.Reset()
}

// extractClassLabels collects the distinct integer labels of y in ascending
// order.
func extractClassLabels(y mat.Matrix) []int {
	rows, _ := y.Dims()
	classSet := make(map[int]bool)
	for i := 0; i < rows; i++ {
		classSet[int(y.At(i, 0))] = true
	}

	classes := make([]int, 0, len(classSet))
	for class := range classSet {
		classes = append(classes, class)
	}
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			if classes[i] > classes[j] {
				classes[i], classes[j] = classes[j], classes[i]
			}
		}
	}
	return classes
}

func classIndex(classes []int, class int) int {
	for i, c := range classes {
		if c == class {
			return i
		}
	}
	return -1
}
