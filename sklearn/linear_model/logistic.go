package linear_model

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// LogisticRegression implements logistic regression for classification,
// fitted by full-batch gradient descent with L2 regularization. Binary
// problems use a single weight vector; multiclass problems fall back to
// one-vs-rest.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	penalty      string  // "l2" or "none"
	C            float64 // inverse regularization strength
	fitIntercept bool
	maxIter      int
	tol          float64 // stop when the largest gradient component is below tol
	randomState  int64
	warmStart    bool

	// Model parameters
	coef_      [][]float64 // 1 x nFeatures for binary, nClasses x nFeatures otherwise
	intercept_ []float64
	classes_   []int
	nClasses_  int
	nFeatures_ int
	nIter_     []int
}

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a LogisticRegression classifier.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
		randomState:  -1,
	}

	for _, opt := range opts {
		opt(lr)
	}

	return lr
}

// WithLRPenalty sets the regularization type, "l2" or "none".
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength.
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLRMaxIter sets the maximum number of gradient descent iterations.
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the gradient tolerance for early stopping.
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState fixes the seed used for weight initialization.
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// WithLRWarmStart reuses the previous solution as the starting point.
func WithLRWarmStart(warmStart bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.warmStart = warmStart
	}
}

// Fit trains the logistic regression model.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, _ := y.Dims()
	if nSamples == 0 {
		return errors.ErrEmptyData
	}
	if nSamples != yRows {
		return errors.NewDimensionError("Fit", nSamples, yRows, 0)
	}

	lr.classes_ = extractClassLabels(y)
	lr.nClasses_ = len(lr.classes_)
	lr.nFeatures_ = nFeatures
	if lr.nClasses_ < 2 {
		return errors.NewValueError("Fit", "needs at least 2 classes")
	}

	if !lr.warmStart || lr.coef_ == nil {
		lr.initializeWeights(nFeatures)
	}

	if lr.nClasses_ == 2 {
		lr.fitBinaryTarget(X, binaryTargets(y, lr.classes_[1]), 0)
	} else {
		for classIdx, class := range lr.classes_ {
			lr.fitBinaryTarget(X, binaryTargets(y, class), classIdx)
		}
	}

	if maxIters(lr.nIter_) >= lr.maxIter {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter, "Maximum number of iterations reached"))
	}

	lr.state.SetFitted()
	return nil
}

// binaryTargets converts y into a 0/1 vector where positiveClass maps to 1.
func binaryTargets(y mat.Matrix, positiveClass int) []float64 {
	rows, _ := y.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positiveClass {
			out[i] = 1
		}
	}
	return out
}

// initializeWeights starts from small random values so OVR columns break
// symmetry.
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nVectors := lr.nClasses_
	if lr.nClasses_ == 2 {
		nVectors = 1
	}

	seed := lr.randomState
	if seed < 0 {
		seed = int64(rand.Uint64() >> 1)
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	lr.coef_ = make([][]float64, nVectors)
	lr.intercept_ = make([]float64, nVectors)
	lr.nIter_ = make([]int, nVectors)
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
		for j := range lr.coef_[i] {
			lr.coef_[i][j] = r.NormFloat64() * 0.01
		}
	}
}

// fitBinaryTarget runs gradient descent on one weight vector against a 0/1
// target.
func (lr *LogisticRegression) fitBinaryTarget(X mat.Matrix, target []float64, classIdx int) {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef_[classIdx]
	intercept := &lr.intercept_[classIdx]

	baseLearningRate := 1.0

	for iter := 0; iter < lr.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - target[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		if lr.penalty == "l2" {
			lambda := 1.0 / lr.C
			for j := range weights {
				gradWeights[j] += lambda * weights[j]
			}
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			*intercept -= learningRate * gradIntercept
		}

		lr.nIter_[classIdx] = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			break
		}
	}
}

// Predict makes class predictions for input data.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "Predict")
	}

	nSamples, cols := X.Dims()
	if cols != lr.nFeatures_ {
		return nil, errors.NewDimensionError("Predict", lr.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)

	if lr.nClasses_ == 2 {
		for i := 0; i < nSamples; i++ {
			z := lr.intercept_[0]
			for j := 0; j < lr.nFeatures_; j++ {
				z += X.At(i, j) * lr.coef_[0][j]
			}
			if sigmoid(z) >= 0.5 {
				predictions.Set(i, 0, float64(lr.classes_[1]))
			} else {
				predictions.Set(i, 0, float64(lr.classes_[0]))
			}
		}
		return predictions, nil
	}

	for i := 0; i < nSamples; i++ {
		maxScore := math.Inf(-1)
		bestClass := 0
		for classIdx := 0; classIdx < lr.nClasses_; classIdx++ {
			score := lr.intercept_[classIdx]
			for j := 0; j < lr.nFeatures_; j++ {
				score += X.At(i, j) * lr.coef_[classIdx][j]
			}
			if score > maxScore {
				maxScore = score
				bestClass = classIdx
			}
		}
		predictions.Set(i, 0, float64(lr.classes_[bestClass]))
	}

	return predictions, nil
}

// PredictProba returns probability estimates, one column per class in
// ascending label order.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}

	nSamples, cols := X.Dims()
	if cols != lr.nFeatures_ {
		return nil, errors.NewDimensionError("PredictProba", lr.nFeatures_, cols, 1)
	}

	probas := mat.NewDense(nSamples, lr.nClasses_, nil)

	if lr.nClasses_ == 2 {
		for i := 0; i < nSamples; i++ {
			z := lr.intercept_[0]
			for j := 0; j < lr.nFeatures_; j++ {
				z += X.At(i, j) * lr.coef_[0][j]
			}
			prob1 := sigmoid(z)
			probas.Set(i, 0, 1.0-prob1)
			probas.Set(i, 1, prob1)
		}
		return probas, nil
	}

	// Softmax over the one-vs-rest scores.
	for i := 0; i < nSamples; i++ {
		scores := make([]float64, lr.nClasses_)
		for classIdx := 0; classIdx < lr.nClasses_; classIdx++ {
			score := lr.intercept_[classIdx]
			for j := 0; j < lr.nFeatures_; j++ {
				score += X.At(i, j) * lr.coef_[classIdx][j]
			}
			scores[classIdx] = score
		}

		logZ := errors.LogSumExp(scores)
		for classIdx := 0; classIdx < lr.nClasses_; classIdx++ {
			probas.Set(i, classIdx, errors.StabilizeExp(scores[classIdx]-logZ))
		}
	}

	return probas, nil
}

// Classes returns the class labels seen during Fit, in ascending order.
func (lr *LogisticRegression) Classes() []int {
	out := make([]int, len(lr.classes_))
	copy(out, lr.classes_)
	return out
}

// Score returns the mean accuracy on the given test data and labels.
func (lr *LogisticRegression) Score(X, y mat.Matrix) float64 {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0.0
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples)
}

func maxIters(iters []int) int {
	maxVal := 0
	for _, v := range iters {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// sigmoid computes the logistic function with overflow protection.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + errors.StabilizeExp(-z))
}
