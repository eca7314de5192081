// Package log defines standard attribute keys for machine learning operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in evalgo. Using these standard keys enables better
// log analysis, monitoring, and debugging of model evaluation workflows.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "sweep.proportion") to enable structured log analysis and filtering.

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "Perceptron", "SGDClassifier", "GaussianNB"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "sweep"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "model_selection", "calibration", "metrics"
	ComponentKey = "ml.component"
)

// Sweep Context
// These attributes describe held-out sweep evaluation progress.
const (
	// ClassifierKey identifies the classifier currently evaluated by a sweep.
	ClassifierKey = "sweep.classifier"

	// ProportionKey records the held-out proportion of the current sweep step.
	ProportionKey = "sweep.proportion"

	// RoundKey records the round index within a held-out proportion.
	RoundKey = "sweep.round"

	// RoundsKey records the configured number of rounds per proportion.
	RoundsKey = "sweep.rounds"

	// ErrorRateKey records a measured or averaged error rate.
	ErrorRateKey = "sweep.error_rate"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct class labels.
	ClassesKey = "data.classes"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records model accuracy for evaluation operations.
	// Range typically [0.0, 1.0] for classification accuracy.
	AccuracyKey = "metrics.accuracy"

	// LossKey records loss value during training or evaluation.
	LossKey = "metrics.loss"

	// IterationKey records the current iteration number during iterative processes.
	IterationKey = "training.iteration"
)

// Configuration
const (
	// RandomSeedKey records the random seed for reproducibility.
	// Essential for debugging and ensuring reproducible sweeps.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard ML operations
	OperationFit        = "fit"
	OperationPredict    = "predict"
	OperationTransform  = "transform"
	OperationScore      = "score"
	OperationPartialFit = "partial_fit"
	OperationSweep      = "sweep"

	// Standard error codes
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorDegenerateSplit   = "DEGENERATE_SPLIT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
