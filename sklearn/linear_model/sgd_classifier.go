package linear_model

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Loss functions supported by SGDClassifier.
const (
	LossHinge = "hinge" // linear SVM
	LossLog   = "log"   // logistic regression
)

// Learning rate schedules supported by SGDClassifier.
const (
	LearningRateOptimal  = "optimal"
	LearningRateConstant = "constant"
)

// SGDClassifier is a linear classifier fitted by stochastic gradient
// descent with L2 regularization. Multi-class problems train one binary
// model per class (one-vs-all).
type SGDClassifier struct {
	model.BaseEstimator

	loss         string
	alpha        float64 // L2 regularization strength
	eta0         float64 // base learning rate
	learningRate string
	maxIter      int
	shuffle      bool
	randomState  int64
	clipNorm     float64 // per-sample gradient norm cap

	coef_      [][]float64
	intercept_ []float64
	classes_   []int
	nClasses_  int
	nFeatures_ int
	nIter_     int
	t_         int64
}

// SGDOption configures an SGDClassifier.
type SGDOption func(*SGDClassifier)

// WithSGDLoss selects "hinge" or "log".
func WithSGDLoss(loss string) SGDOption {
	return func(s *SGDClassifier) {
		s.loss = loss
	}
}

// WithSGDAlpha sets the L2 regularization strength.
func WithSGDAlpha(alpha float64) SGDOption {
	return func(s *SGDClassifier) {
		s.alpha = alpha
	}
}

// WithSGDEta0 sets the base learning rate.
func WithSGDEta0(eta float64) SGDOption {
	return func(s *SGDClassifier) {
		s.eta0 = eta
	}
}

// WithSGDLearningRate selects the schedule, "optimal" or "constant".
func WithSGDLearningRate(schedule string) SGDOption {
	return func(s *SGDClassifier) {
		s.learningRate = schedule
	}
}

// WithSGDMaxIter sets the number of training epochs.
func WithSGDMaxIter(maxIter int) SGDOption {
	return func(s *SGDClassifier) {
		s.maxIter = maxIter
	}
}

// WithSGDRandomState fixes the shuffling seed.
func WithSGDRandomState(seed int64) SGDOption {
	return func(s *SGDClassifier) {
		s.randomState = seed
	}
}

// NewSGDClassifier creates an SGDClassifier with scikit-learn compatible
// defaults: hinge loss, alpha 1e-4, optimal schedule.
func NewSGDClassifier(options ...SGDOption) *SGDClassifier {
	s := &SGDClassifier{
		loss:         LossHinge,
		alpha:        1e-4,
		eta0:         0.01,
		learningRate: LearningRateOptimal,
		maxIter:      100,
		shuffle:      true,
		randomState:  -1,
		clipNorm:     1e3,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Fit trains the classifier from scratch on X and y.
func (s *SGDClassifier) Fit(X, y mat.Matrix) error {
	switch s.loss {
	case LossHinge, LossLog:
	default:
		return errors.NewValidationError("loss", "unknown loss function", s.loss)
	}

	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	if rows != yRows {
		return errors.NewDimensionError("Fit", rows, yRows, 0)
	}

	s.reset()
	s.nFeatures_ = cols
	s.classes_ = extractClassLabels(y)
	s.nClasses_ = len(s.classes_)
	s.initializeWeights()

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	var r *rand.Rand
	if s.shuffle {
		seed := s.randomState
		if seed < 0 {
			seed = int64(rand.Uint64() >> 1)
		}
		r = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}

	for epoch := 0; epoch < s.maxIter; epoch++ {
		if r != nil {
			r.Shuffle(rows, func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		for _, i := range order {
			xi := mat.Row(nil, i, X)
			yi := int(y.At(i, 0))
			s.updateSample(xi, yi)
		}
		s.nIter_ = epoch + 1

		for c := 0; c < s.nClasses_; c++ {
			if err := errors.CheckNumericalStability("SGDClassifier.Fit", s.coef_[c], s.nIter_); err != nil {
				return err
			}
		}
	}

	s.SetFitted()
	return nil
}

// PartialFit performs one SGD pass over a mini-batch. On the first call
// classes must enumerate every label that will ever be seen.
func (s *SGDClassifier) PartialFit(X, y mat.Matrix, classes []int) error {
	rows, cols := X.Dims()

	if s.coef_ == nil {
		if len(classes) == 0 {
			return errors.NewValueError("PartialFit", "classes must be provided on the first call")
		}
		s.nFeatures_ = cols
		s.classes_ = make([]int, len(classes))
		copy(s.classes_, classes)
		s.nClasses_ = len(classes)
		s.initializeWeights()
	}

	if cols != s.nFeatures_ {
		return errors.NewDimensionError("PartialFit", s.nFeatures_, cols, 1)
	}

	for i := 0; i < rows; i++ {
		xi := mat.Row(nil, i, X)
		yi := int(y.At(i, 0))
		s.updateSample(xi, yi)
	}

	s.SetFitted()
	return nil
}

// updateSample applies one one-vs-all SGD step for a single sample.
func (s *SGDClassifier) updateSample(x []float64, y int) {
	trueIdx := classIndex(s.classes_, y)
	if trueIdx == -1 {
		return
	}

	s.t_++
	eta := s.learningRateAt(s.t_)

	grad := make([]float64, len(x))
	for c := 0; c < s.nClasses_; c++ {
		target := -1.0
		if c == trueIdx {
			target = 1.0
		}

		score := s.intercept_[c]
		for j, xj := range x {
			score += s.coef_[c][j] * xj
		}

		// dloss is the derivative of the loss with respect to the score.
		var dloss float64
		switch s.loss {
		case LossHinge:
			if target*score < 1 {
				dloss = -target
			}
		case LossLog:
			// d/dscore log(1 + exp(-target*score))
			dloss = -target / (1 + errors.StabilizeExp(target*score))
		}

		for j, xj := range x {
			grad[j] = dloss*xj + s.alpha*s.coef_[c][j]
		}
		clipped := errors.ClipGradient(grad, s.clipNorm)

		for j := range clipped {
			s.coef_[c][j] -= eta * clipped[j]
		}
		s.intercept_[c] -= eta * dloss
	}
}

// learningRateAt returns the step size for global step t.
func (s *SGDClassifier) learningRateAt(t int64) float64 {
	if s.learningRate == LearningRateConstant {
		return s.eta0
	}
	// sklearn's "optimal" schedule: eta = 1 / (alpha * (t0 + t)) with a
	// heuristic t0 absorbed into a fixed offset.
	return 1.0 / (s.alpha * (1e4 + float64(t)))
}

// Predict returns the highest-scoring class for each row of X.
func (s *SGDClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SGDClassifier", "Predict")
	}

	rows, cols := X.Dims()
	if cols != s.nFeatures_ {
		return nil, errors.NewDimensionError("Predict", s.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		xi := mat.Row(nil, i, X)
		best := 0
		bestScore := s.decision(0, xi)
		for c := 1; c < s.nClasses_; c++ {
			if score := s.decision(c, xi); score > bestScore {
				bestScore = score
				best = c
			}
		}
		predictions.Set(i, 0, float64(s.classes_[best]))
	}
	return predictions, nil
}

// DecisionFunction returns the raw per-class scores, one row per sample.
func (s *SGDClassifier) DecisionFunction(X mat.Matrix) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SGDClassifier", "DecisionFunction")
	}

	rows, cols := X.Dims()
	if cols != s.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionFunction", s.nFeatures_, cols, 1)
	}

	scores := mat.NewDense(rows, s.nClasses_, nil)
	for i := 0; i < rows; i++ {
		xi := mat.Row(nil, i, X)
		for c := 0; c < s.nClasses_; c++ {
			scores.Set(i, c, s.decision(c, xi))
		}
	}
	return scores, nil
}

func (s *SGDClassifier) decision(c int, x []float64) float64 {
	score := s.intercept_[c]
	for j, xj := range x {
		score += s.coef_[c][j] * xj
	}
	return score
}

// Classes returns the class labels seen during Fit, in ascending order.
func (s *SGDClassifier) Classes() []int {
	out := make([]int, len(s.classes_))
	copy(out, s.classes_)
	return out
}

// NIterations returns the number of completed training epochs.
func (s *SGDClassifier) NIterations() int {
	return s.nIter_
}

func (s *SGDClassifier) initializeWeights() {
	s.coef_ = make([][]float64, s.nClasses_)
	s.intercept_ = make([]float64, s.nClasses_)
	for c := range s.coef_ {
		s.coef_[c] = make([]float64, s.nFeatures_)
	}
}

func (s *SGDClassifier) reset() {
	s.coef_ = nil
	s.intercept_ = nil
	s.classes_ = nil
	s.nClasses_ = 0
	s.nIter_ = 0
	s.t_ = 0
	s.Reset()
}
