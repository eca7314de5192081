// Package model provides additional interfaces and types for machine learning models.
// This file complements the core interfaces in estimator.go and transformer.go
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the mean accuracy on the given test data and labels.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// IncrementalLearner is the interface for models that support incremental learning.
type IncrementalLearner interface {
	// PartialFit performs one pass of online updates on the given samples.
	// classes lists all class labels for classification problems and is
	// required only on the first call.
	PartialFit(X mat.Matrix, y mat.Matrix, classes []int) error
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ProbabilisticClassifier is a Classifier that can also estimate class
// membership probabilities. Probability calibration wraps this capability.
type ProbabilisticClassifier interface {
	Classifier

	// PredictProba returns probability estimates for each class,
	// one row per sample, columns ordered as Classes().
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// OnlineClassifier combines interfaces for online classification models.
type OnlineClassifier interface {
	Classifier
	IncrementalLearner
}
