// Package naive_bayes implements naive Bayes classifiers compatible with
// scikit-learn's naive_bayes module.
package naive_bayes

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// MultinomialNB is a naive Bayes classifier for count features, such as
// word counts in text classification. Features must be non-negative.
type MultinomialNB struct {
	state *model.StateManager

	alpha    float64 // additive (Laplace) smoothing
	fitPrior bool    // learn class priors from data; uniform otherwise

	classes_       []int
	classCount_    []float64
	featureCount_  [][]float64 // per class, per feature
	classLogPrior_ []float64
	featureLogProb_ [][]float64
	nFeatures_     int
	nSamplesSeen_  int
}

// MultinomialNBOption configures a MultinomialNB.
type MultinomialNBOption func(*MultinomialNB)

// WithAlpha sets the additive smoothing parameter.
func WithAlpha(alpha float64) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.alpha = alpha
	}
}

// WithFitPrior controls whether class priors are learned from the data.
func WithFitPrior(fitPrior bool) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.fitPrior = fitPrior
	}
}

// NewMultinomialNB creates a MultinomialNB with alpha 1.0 and learned
// priors, matching scikit-learn's defaults.
func NewMultinomialNB(options ...MultinomialNBOption) *MultinomialNB {
	nb := &MultinomialNB{
		state:    model.NewStateManager(),
		alpha:    1.0,
		fitPrior: true,
	}

	for _, opt := range options {
		opt(nb)
	}

	return nb
}

// Fit trains the classifier from scratch on X and y.
func (nb *MultinomialNB) Fit(X, y mat.Matrix) error {
	nb.classes_ = nil
	nb.classCount_ = nil
	nb.featureCount_ = nil
	nb.nSamplesSeen_ = 0
	nb.state.Reset()

	return nb.PartialFit(X, y, nil)
}

// PartialFit incrementally accumulates count statistics. On the first call
// classes may enumerate every label that will ever be seen; if nil, the
// labels present in y are used.
func (nb *MultinomialNB) PartialFit(X, y mat.Matrix, classes []int) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	if rows != yRows {
		return errors.NewDimensionError("PartialFit", rows, yRows, 0)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if X.At(i, j) < 0 {
				return errors.NewValueError("PartialFit", "MultinomialNB requires non-negative feature values")
			}
		}
	}

	if nb.featureCount_ == nil {
		nb.nFeatures_ = cols
		if classes != nil {
			nb.classes_ = make([]int, len(classes))
			copy(nb.classes_, classes)
		} else {
			nb.classes_ = uniqueLabels(y)
		}
		nb.classCount_ = make([]float64, len(nb.classes_))
		nb.featureCount_ = make([][]float64, len(nb.classes_))
		for c := range nb.featureCount_ {
			nb.featureCount_[c] = make([]float64, cols)
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
		for j := 0; j < cols; j++ {
			nb.featureCount_[classIdx][j] += X.At(i, j)
		}
	}
	nb.nSamplesSeen_ += rows

	nb.updateLogProbs()
	nb.state.SetFitted()
	return nil
}

// updateLogProbs refreshes the cached log priors and per-feature log
// probabilities from the accumulated counts.
func (nb *MultinomialNB) updateLogProbs() {
	nClasses := len(nb.classes_)

	nb.classLogPrior_ = make([]float64, nClasses)
	if nb.fitPrior {
		total := 0.0
		for _, c := range nb.classCount_ {
			total += c
		}
		for c := range nb.classLogPrior_ {
			nb.classLogPrior_[c] = errors.StabilizeLog(nb.classCount_[c] / total)
		}
	} else {
		uniform := -math.Log(float64(nClasses))
		for c := range nb.classLogPrior_ {
			nb.classLogPrior_[c] = uniform
		}
	}

	nb.featureLogProb_ = make([][]float64, nClasses)
	for c := 0; c < nClasses; c++ {
		nb.featureLogProb_[c] = make([]float64, nb.nFeatures_)
		total := 0.0
		for j := 0; j < nb.nFeatures_; j++ {
			total += nb.featureCount_[c][j] + nb.alpha
		}
		for j := 0; j < nb.nFeatures_; j++ {
			nb.featureLogProb_[c][j] = errors.StabilizeLog((nb.featureCount_[c][j] + nb.alpha) / total)
		}
	}
}

// jointLogLikelihood returns the unnormalized per-class log likelihoods.
func (nb *MultinomialNB) jointLogLikelihood(x []float64) []float64 {
	joint := make([]float64, len(nb.classes_))
	for c := range joint {
		ll := nb.classLogPrior_[c]
		for j, count := range x {
			ll += count * nb.featureLogProb_[c][j]
		}
		joint[c] = ll
	}
	return joint
}

// Predict returns the most likely class for each row of X.
func (nb *MultinomialNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !nb.state.IsFitted() {
		return nil, errors.NewNotFittedError("MultinomialNB", "Predict")
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
func (nb *MultinomialNB) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if !nb.state.IsFitted() {
		return nil, errors.NewNotFittedError("MultinomialNB", "PredictLogProba")
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
func (nb *MultinomialNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
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
func (nb *MultinomialNB) Score(X, y mat.Matrix) (float64, error) {
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
func (nb *MultinomialNB) Classes() []int {
	out := make([]int, len(nb.classes_))
	copy(out, nb.classes_)
	return out
}

// NSamplesSeen returns the total number of samples accumulated so far.
func (nb *MultinomialNB) NSamplesSeen() int {
	return nb.nSamplesSeen_
}

// uniqueLabels collects the distinct integer labels of y in ascending order.
func uniqueLabels(y mat.Matrix) []int {
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

func labelIndex(classes []int, class int) int {
	for i, c := range classes {
		if c == class {
			return i
		}
	}
	return -1
}
