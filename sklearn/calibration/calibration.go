// Package calibration postprocesses classifier scores into well-calibrated
// probabilities, compatible with scikit-learn's calibration module.
package calibration

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Calibration methods.
const (
	MethodSigmoid  = "sigmoid"  // Platt scaling
	MethodIsotonic = "isotonic" // pool-adjacent-violators
)

// CalibratedClassifier wraps a binary probabilistic classifier and remaps
// its positive-class probability through a calibrator fitted on the
// training data.
type CalibratedClassifier struct {
	state *model.StateManager

	base   model.ProbabilisticClassifier
	method string

	classes_  []int
	platt_    *plattScaler
	isotonic_ *IsotonicRegression
}

// CalibrationOption configures a CalibratedClassifier.
type CalibrationOption func(*CalibratedClassifier)

// WithCalibrationMethod selects "sigmoid" or "isotonic".
func WithCalibrationMethod(method string) CalibrationOption {
	return func(c *CalibratedClassifier) {
		c.method = method
	}
}

// NewCalibratedClassifier wraps base with the sigmoid method by default.
func NewCalibratedClassifier(base model.ProbabilisticClassifier, options ...CalibrationOption) *CalibratedClassifier {
	c := &CalibratedClassifier{
		state:  model.NewStateManager(),
		base:   base,
		method: MethodSigmoid,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Fit trains the base classifier on X and y, then fits the calibrator on
// the base classifier's positive-class probabilities for the same data.
// Only binary problems are supported.
func (c *CalibratedClassifier) Fit(X, y mat.Matrix) error {
	switch c.method {
	case MethodSigmoid, MethodIsotonic:
	default:
		return errors.NewValidationError("method", "unknown calibration method", c.method)
	}
	if c.base == nil {
		return errors.NewValueError("Fit", "nil base classifier")
	}

	if err := c.base.Fit(X, y); err != nil {
		return errors.Wrap(err, "evalgo: fitting base classifier")
	}

	c.classes_ = c.base.Classes()
	if len(c.classes_) != 2 {
		return errors.NewValueError("Fit", "calibration requires exactly 2 classes")
	}

	scores, targets, err := c.positiveScores(X, y)
	if err != nil {
		return err
	}

	switch c.method {
	case MethodSigmoid:
		c.platt_ = newPlattScaler()
		if err := c.platt_.Fit(scores, targets); err != nil {
			return err
		}
	case MethodIsotonic:
		c.isotonic_ = NewIsotonicRegression()
		floatTargets := make([]float64, len(targets))
		for i, t := range targets {
			floatTargets[i] = float64(t)
		}
		if err := c.isotonic_.Fit(scores, floatTargets); err != nil {
			return err
		}
	}

	c.state.SetFitted()
	return nil
}

// positiveScores extracts the base classifier's positive-class probability
// per sample and the 0/1 targets.
func (c *CalibratedClassifier) positiveScores(X, y mat.Matrix) ([]float64, []int, error) {
	proba, err := c.base.PredictProba(X)
	if err != nil {
		return nil, nil, errors.Wrap(err, "evalgo: scoring base classifier")
	}

	rows, cols := proba.Dims()
	if cols != 2 {
		return nil, nil, errors.NewDimensionError("positiveScores", 2, cols, 1)
	}

	scores := make([]float64, rows)
	targets := make([]int, rows)
	for i := 0; i < rows; i++ {
		scores[i] = proba.At(i, 1)
		if int(y.At(i, 0)) == c.classes_[1] {
			targets[i] = 1
		}
	}
	return scores, targets, nil
}

// calibrate maps raw positive-class probabilities through the fitted
// calibrator.
func (c *CalibratedClassifier) calibrate(scores []float64) ([]float64, error) {
	switch c.method {
	case MethodSigmoid:
		return c.platt_.Predict(scores), nil
	default:
		return c.isotonic_.Predict(scores)
	}
}

// PredictProba returns calibrated probabilities, one column per class.
func (c *CalibratedClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !c.state.IsFitted() {
		return nil, errors.NewNotFittedError("CalibratedClassifier", "PredictProba")
	}

	proba, err := c.base.PredictProba(X)
	if err != nil {
		return nil, err
	}

	rows, _ := proba.Dims()
	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		scores[i] = proba.At(i, 1)
	}

	calibrated, err := c.calibrate(scores)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, 2, nil)
	for i, p := range calibrated {
		p = errors.ClipValue(p, 0, 1)
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out, nil
}

// Predict returns the class with the higher calibrated probability.
func (c *CalibratedClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	rows, _ := proba.Dims()
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		if proba.At(i, 1) >= 0.5 {
			predictions.Set(i, 0, float64(c.classes_[1]))
		} else {
			predictions.Set(i, 0, float64(c.classes_[0]))
		}
	}
	return predictions, nil
}

// Classes returns the class labels in ascending order.
func (c *CalibratedClassifier) Classes() []int {
	out := make([]int, len(c.classes_))
	copy(out, c.classes_)
	return out
}

// CalibrationCurve computes a reliability curve: predicted probabilities
// are bucketed into nBins uniform bins over [0, 1], and for each non-empty
// bin the mean predicted probability and the observed fraction of positives
// are returned. yTrue must contain 0/1 labels.
func CalibrationCurve(yTrue, probPos *mat.VecDense, nBins int) (meanPredicted, fractionPositives []float64, err error) {
	if yTrue == nil || probPos == nil || yTrue.Len() == 0 {
		return nil, nil, errors.ErrEmptyData
	}
	if yTrue.Len() != probPos.Len() {
		return nil, nil, errors.NewDimensionError("CalibrationCurve", yTrue.Len(), probPos.Len(), 0)
	}
	if nBins < 1 {
		return nil, nil, errors.NewValidationError("nBins", "must be a positive integer", nBins)
	}

	binSum := make([]float64, nBins)
	binPositives := make([]float64, nBins)
	binCount := make([]int, nBins)

	for i := 0; i < probPos.Len(); i++ {
		p := probPos.AtVec(i)
		if p < 0 || p > 1 {
			return nil, nil, errors.NewValueError("CalibrationCurve", "probabilities must lie in [0, 1]")
		}
		bin := int(p * float64(nBins))
		if bin == nBins {
			bin = nBins - 1
		}
		binSum[bin] += p
		binPositives[bin] += yTrue.AtVec(i)
		binCount[bin]++
	}

	for bin := 0; bin < nBins; bin++ {
		if binCount[bin] == 0 {
			continue
		}
		meanPredicted = append(meanPredicted, binSum[bin]/float64(binCount[bin]))
		fractionPositives = append(fractionPositives, binPositives[bin]/float64(binCount[bin]))
	}
	return meanPredicted, fractionPositives, nil
}
