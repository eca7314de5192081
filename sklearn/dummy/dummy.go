// Package dummy provides classifiers that ignore the input features and
// predict from simple rules. They serve as baselines: any real classifier
// should beat them, and in a held-out proportion sweep their error curve
// stays flat regardless of how little training data remains.
package dummy

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Supported prediction strategies.
const (
	StrategyMostFrequent = "most_frequent"
	StrategyUniform      = "uniform"
	StrategyStratified   = "stratified"
)

// DummyClassifier predicts without looking at X.
//
// Strategies:
//   - "most_frequent": always predict the majority class of the training labels
//   - "uniform": predict a class uniformly at random
//   - "stratified": predict a class at random following the training distribution
type DummyClassifier struct {
	model.BaseEstimator

	strategy    string
	randomState int64

	classes_   []int
	counts_    []int
	majority_  int
	nSamples_  int
	nFeatures_ int
}

// DummyOption configures a DummyClassifier.
type DummyOption func(*DummyClassifier)

// WithDummyStrategy selects the prediction strategy.
func WithDummyStrategy(strategy string) DummyOption {
	return func(d *DummyClassifier) {
		d.strategy = strategy
	}
}

// WithDummyRandomState fixes the seed used by the random strategies.
func WithDummyRandomState(seed int64) DummyOption {
	return func(d *DummyClassifier) {
		d.randomState = seed
	}
}

// NewDummyClassifier creates a DummyClassifier. The default strategy is
// "most_frequent".
func NewDummyClassifier(options ...DummyOption) *DummyClassifier {
	d := &DummyClassifier{
		strategy:    StrategyMostFrequent,
		randomState: -1,
	}

	for _, opt := range options {
		opt(d)
	}

	return d
}

// Fit records the training label distribution. X is accepted only for
// dimension bookkeeping.
func (d *DummyClassifier) Fit(X, y mat.Matrix) error {
	switch d.strategy {
	case StrategyMostFrequent, StrategyUniform, StrategyStratified:
	default:
		return errors.NewValidationError("strategy", "unknown strategy", d.strategy)
	}

	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	if rows != yRows {
		return errors.NewDimensionError("Fit", rows, yRows, 0)
	}

	classCounts := make(map[int]int)
	for i := 0; i < yRows; i++ {
		classCounts[int(y.At(i, 0))]++
	}

	classes := make([]int, 0, len(classCounts))
	for class := range classCounts {
		classes = append(classes, class)
	}
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			if classes[i] > classes[j] {
				classes[i], classes[j] = classes[j], classes[i]
			}
		}
	}

	d.classes_ = classes
	d.counts_ = make([]int, len(classes))
	d.majority_ = classes[0]
	bestCount := -1
	for i, class := range classes {
		d.counts_[i] = classCounts[class]
		if classCounts[class] > bestCount {
			bestCount = classCounts[class]
			d.majority_ = class
		}
	}

	d.nSamples_ = rows
	d.nFeatures_ = cols
	d.SetFitted()
	return nil
}

// Predict returns one label per row of X according to the strategy.
func (d *DummyClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !d.IsFitted() {
		return nil, errors.NewNotFittedError("DummyClassifier", "Predict")
	}

	rows, _ := X.Dims()
	predictions := mat.NewDense(rows, 1, nil)

	switch d.strategy {
	case StrategyMostFrequent:
		for i := 0; i < rows; i++ {
			predictions.Set(i, 0, float64(d.majority_))
		}

	case StrategyUniform:
		r := d.newRand()
		for i := 0; i < rows; i++ {
			predictions.Set(i, 0, float64(d.classes_[r.IntN(len(d.classes_))]))
		}

	case StrategyStratified:
		r := d.newRand()
		for i := 0; i < rows; i++ {
			predictions.Set(i, 0, float64(d.sampleClass(r)))
		}
	}

	return predictions, nil
}

// Classes returns the class labels seen during Fit, in ascending order.
func (d *DummyClassifier) Classes() []int {
	out := make([]int, len(d.classes_))
	copy(out, d.classes_)
	return out
}

func (d *DummyClassifier) newRand() *rand.Rand {
	seed := d.randomState
	if seed < 0 {
		seed = int64(rand.Uint64() >> 1)
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// sampleClass draws a class following the training label distribution.
func (d *DummyClassifier) sampleClass(r *rand.Rand) int {
	target := r.IntN(d.nSamples_)
	cum := 0
	for i, count := range d.counts_ {
		cum += count
		if target < cum {
			return d.classes_[i]
		}
	}
	return d.classes_[len(d.classes_)-1]
}
