package naive_bayes

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// GaussianNB is a naive Bayes classifier for continuous features, assuming
// each feature follows a per-class Gaussian distribution.
type GaussianNB struct {
	state *model.StateManager

	varSmoothing float64 // fraction of the largest variance added to all variances

	classes_    []int
	classCount_ []float64
	theta_      [][]float64 // per-class feature means
	sigma_      [][]float64 // per-class feature variances
	m2_         [][]float64 // running sums of squared deviations
	nFeatures_  int
	epsilon_    float64
}

// GaussianNBOption configures a GaussianNB.
type GaussianNBOption func(*GaussianNB)

// WithVarSmoothing sets the variance smoothing fraction.
func WithVarSmoothing(smoothing float64) GaussianNBOption {
	return func(nb *GaussianNB) {
		nb.varSmoothing = smoothing
	}
}

// NewGaussianNB creates a GaussianNB with scikit-learn's default variance
// smoothing of 1e-9.
func NewGaussianNB(options ...GaussianNBOption) *GaussianNB {
	nb := &GaussianNB{
		state:        model.NewStateManager(),
		varSmoothing: 1e-9,
	}

	for _, opt := range options {
		opt(nb)
	}

	return nb
}

// Fit trains the classifier from scratch on X and y.
func (nb *GaussianNB) Fit(X, y mat.Matrix) error {
	nb.classes_ = nil
	nb.classCount_ = nil
	nb.theta_ = nil
	nb.sigma_ = nil
	nb.m2_ = nil
	nb.state.Reset()

	return nb.PartialFit(X, y, nil)
}

// PartialFit incrementally updates per-class means and variances with
// Welford's algorithm, so mini-batches accumulate the same statistics as a
// single batch.
func (nb *GaussianNB) PartialFit(X, y mat.Matrix, classes []int) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	if rows != yRows {
		return errors.NewDimensionError("PartialFit", rows, yRows, 0)
	}

	if nb.theta_ == nil {
		nb.nFeatures_ = cols
		if classes != nil {
			nb.classes_ = make([]int, len(classes))
			copy(nb.classes_, classes)
		} else {
			nb.classes_ = uniqueLabels(y)
		}
		nClasses := len(nb.classes_)
		nb.classCount_ = make([]float64, nClasses)
		nb.theta_ = make([][]float64, nClasses)
		nb.sigma_ = make([][]float64, nClasses)
		nb.m2_ = make([][]float64, nClasses)
		for c := 0; c < nClasses; c++ {
			nb.theta_[c] = make([]float64, cols)
			nb.sigma_[c] = make([]float64, cols)
			nb.m2_[c] = make([]float64, cols)
		}
	}

	if cols != nb.nFeatures_ {
		return errors.NewDimensionError("PartialFit", nb.nFeatures_, cols, 1)
	}

	for i := 0; i < rows; i++ {
		classIdx := labelIndex(nb.classes_, int(y.At(i, 0)))
		if classIdx == -1 {
			return errors.NewValueError("PartialFit", "label outside the declared class set")
		}

		nb.classCount_[classIdx]++
		n := nb.classCount_[classIdx]
		for j := 0; j < cols; j++ {
			x := X.At(i, j)
			delta := x - nb.theta_[classIdx][j]
			nb.theta_[classIdx][j] += delta / n
			nb.m2_[classIdx][j] += delta * (x - nb.theta_[classIdx][j])
		}
	}

	nb.updateVariances()
	nb.state.SetFitted()
	return nil
}

// updateVariances recomputes per-class variances plus the smoothing term.
func (nb *GaussianNB) updateVariances() {
	maxVar := 0.0
	for c := range nb.sigma_ {
		n := nb.classCount_[c]
		for j := range nb.sigma_[c] {
			if n > 0 {
				nb.sigma_[c][j] = nb.m2_[c][j] / n
			}
			if nb.sigma_[c][j] > maxVar {
				maxVar = nb.sigma_[c][j]
			}
		}
	}

	nb.epsilon_ = nb.varSmoothing * maxVar
	if nb.epsilon_ <= 0 {
		nb.epsilon_ = nb.varSmoothing
	}
}

// jointLogLikelihood returns the unnormalized per-class log posteriors.
func (nb *GaussianNB) jointLogLikelihood(x []float64) []float64 {
	total := 0.0
	for _, c := range nb.classCount_ {
		total += c
	}

	joint := make([]float64, len(nb.classes_))
	for c := range joint {
		ll := errors.StabilizeLog(nb.classCount_[c] / total)
		for j, xj := range x {
			variance := nb.sigma_[c][j] + nb.epsilon_
			diff := xj - nb.theta_[c][j]
			ll += -0.5*math.Log(2*math.Pi*variance) - diff*diff/(2*variance)
		}
		joint[c] = ll
	}
	return joint
}

// Predict returns the most likely class for each row of X.
func (nb *GaussianNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !nb.state.IsFitted() {
		return nil, errors.NewNotFittedError("GaussianNB", "Predict")
	}

	rows, cols := X.Dims()
	if cols != nb.nFeatures_ {
		return nil, errors.NewDimensionError("Predict", nb.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		joint := nb.jointLogLikelihood(mat.Row(nil, i, X))
		best := 0
		for c := 1; c < len(joint); c++ {
			if joint[c] > joint[best] {
				best = c
			}
		}
		predictions.Set(i, 0, float64(nb.classes_[best]))
	}
	return predictions, nil
}

// PredictLogProba returns normalized log probabilities, one column per class
// in declared order.
func (nb *GaussianNB) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if !nb.state.IsFitted() {
		return nil, errors.NewNotFittedError("GaussianNB", "PredictLogProba")
	}

	rows, cols := X.Dims()
	if cols != nb.nFeatures_ {
		return nil, errors.NewDimensionError("PredictLogProba", nb.nFeatures_, cols, 1)
	}

	out := mat.NewDense(rows, len(nb.classes_), nil)
	for i := 0; i < rows; i++ {
		joint := nb.jointLogLikelihood(mat.Row(nil, i, X))
		logZ := errors.LogSumExp(joint)
		for c := range joint {
			out.Set(i, c, joint[c]-logZ)
		}
	}
	return out, nil
}

// PredictProba returns normalized class probabilities.
func (nb *GaussianNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	logProba, err := nb.PredictLogProba(X)
	if err != nil {
		return nil, err
	}

	rows, cols := logProba.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for c := 0; c < cols; c++ {
			out.Set(i, c, errors.StabilizeExp(logProba.At(i, c)))
		}
	}
	return out, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (nb *GaussianNB) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}

	rows, _ := X.Dims()
	correct := 0
	for i := 0; i < rows; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(rows), nil
}

// Classes returns the class labels in declared order.
func (nb *GaussianNB) Classes() []int {
	out := make([]int, len(nb.classes_))
	copy(out, nb.classes_)
	return out
}
