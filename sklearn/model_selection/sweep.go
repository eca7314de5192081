package model_selection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/evalgo/core/model"
	"github.com/YuminosukeSato/evalgo/core/parallel"
	"github.com/YuminosukeSato/evalgo/dataset"
	"github.com/YuminosukeSato/evalgo/metrics"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
	"github.com/YuminosukeSato/evalgo/pkg/log"
)

// SweepConfig describes a held-out proportion sweep: for every classifier and
// every held-out proportion, Rounds randomized train/test splits are drawn,
// the classifier is retrained on each, and the per-split error rates are
// averaged into one curve point.
//
// Proportions are evaluated in the order given; that order also determines
// curve ordering in the result. Seed determines a single reproducible split
// sequence shared by the entire sweep - it is not reseeded per classifier,
// per proportion, or per round.
type SweepConfig struct {
	Proportions []float64 // held-out (test) fractions, each strictly in (0,1)
	Rounds      int       // randomized splits per proportion
	Seed        int64     // seed for the shared split sequence
}

// validate reports configuration errors before any round executes, including
// proportions that would yield a degenerate split for this dataset size.
func (c SweepConfig) validate(ds *dataset.Dataset) error {
	if ds == nil {
		return errors.NewValueError("Sweep", "nil dataset")
	}
	if ds.NSamples() < 2 {
		return errors.NewValueError("Sweep", "dataset must contain at least 2 samples")
	}
	if len(c.Proportions) == 0 {
		return errors.NewValidationError("Proportions", "must not be empty", c.Proportions)
	}
	if c.Rounds <= 0 {
		return errors.NewValidationError("Rounds", "must be a positive integer", c.Rounds)
	}

	n := ds.NSamples()
	for _, p := range c.Proportions {
		if p <= 0 || p >= 1 {
			return errors.NewValidationError("Proportions", "each proportion must lie strictly between 0 and 1", p)
		}
		if nTrain, nTest := SplitSizes(n, p); nTrain == 0 || nTest == 0 {
			return errors.NewDegenerateSplitError(p, n, nTrain, nTest)
		}
	}

	return nil
}

// NamedClassifier pairs a classifier with the name used to key its curve.
// Any value offering the Fit/Predict capability pair is acceptable; the
// instance is retrained on every round and must not be shared between names.
type NamedClassifier struct {
	Name       string
	Classifier model.Estimator
}

// SweepResult maps each classifier name to its error-rate curve. Curves are
// aligned positionally with Proportions; every value is a mean over exactly
// Rounds observations and lies in [0,1].
type SweepResult struct {
	Proportions []float64
	Names       []string // classifier names in declared evaluation order
	Curves      map[string][]float64
}

// Curve returns the error-rate curve for a classifier name.
func (r *SweepResult) Curve(name string) ([]float64, bool) {
	curve, ok := r.Curves[name]
	return curve, ok
}

// MeanError returns the mean of a classifier's curve values, or 0 if the
// name is unknown.
func (r *SweepResult) MeanError(name string) float64 {
	curve, ok := r.Curves[name]
	if !ok || len(curve) == 0 {
		return 0
	}

	return stat.Mean(curve, nil)
}

// StdError returns the sample standard deviation of a classifier's curve
// values, or 0 for unknown names and single-point curves.
func (r *SweepResult) StdError(name string) float64 {
	curve, ok := r.Curves[name]
	if !ok || len(curve) <= 1 {
		return 0
	}

	return stat.StdDev(curve, nil)
}

type sweepOptions struct {
	logger             log.Logger
	independentStreams bool
}

// SweepOption configures optional sweep behavior.
type SweepOption func(*sweepOptions)

// WithSweepLogger attaches a structured logger reporting per-curve-point
// progress at debug level.
func WithSweepLogger(logger log.Logger) SweepOption {
	return func(o *sweepOptions) {
		o.logger = logger
	}
}

// WithIndependentStreams evaluates classifiers concurrently, each drawing
// splits from its own deterministically derived random sequence instead of
// the single shared one. Results remain reproducible for a fixed seed but
// differ from the default shared-sequence semantics.
func WithIndependentStreams() SweepOption {
	return func(o *sweepOptions) {
		o.independentStreams = true
	}
}

// Sweep runs the held-out proportion sweep over the given classifiers,
// strictly in the declared order, and returns one curve per classifier.
//
// A fit or predict failure (including a recovered panic inside the
// classifier) aborts the sweep and is reported with the classifier name,
// held-out proportion, and round index that triggered it. There is no retry
// and no partial result.
func Sweep(ds *dataset.Dataset, cfg SweepConfig, classifiers []NamedClassifier, opts ...SweepOption) (*SweepResult, error) {
	var o sweepOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.validate(ds); err != nil {
		return nil, err
	}
	if len(classifiers) == 0 {
		return nil, errors.NewValueError("Sweep", "no classifiers supplied")
	}

	seen := make(map[string]struct{}, len(classifiers))
	for _, nc := range classifiers {
		if nc.Classifier == nil {
			return nil, errors.NewValueError("Sweep", "nil classifier for name "+nc.Name)
		}
		if _, dup := seen[nc.Name]; dup {
			return nil, errors.NewValidationError("classifiers", "duplicate classifier name", nc.Name)
		}
		seen[nc.Name] = struct{}{}
	}

	result := &SweepResult{
		Proportions: append([]float64(nil), cfg.Proportions...),
		Names:       make([]string, len(classifiers)),
		Curves:      make(map[string][]float64, len(classifiers)),
	}
	for i, nc := range classifiers {
		result.Names[i] = nc.Name
	}

	if o.independentStreams {
		return runIndependent(ds, cfg, classifiers, result, o)
	}

	// One shared sequence for the whole sweep: the n-th split drawn is
	// deterministic given the seed and the number of prior draws.
	r := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))

	for _, nc := range classifiers {
		curve, err := sweepCurve(ds, cfg, nc, r, o.logger)
		if err != nil {
			return nil, err
		}
		result.Curves[nc.Name] = curve
	}

	return result, nil
}

// runIndependent evaluates each classifier's curve concurrently with a
// per-classifier random sequence derived from the configured seed and the
// classifier's position.
func runIndependent(ds *dataset.Dataset, cfg SweepConfig, classifiers []NamedClassifier, result *SweepResult, o sweepOptions) (*SweepResult, error) {
	curves := make([][]float64, len(classifiers))
	errs := make([]error, len(classifiers))

	parallel.Parallelize(len(classifiers), func(start, end int) {
		for i := start; i < end; i++ {
			r := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(i)+1))
			curves[i], errs[i] = sweepCurve(ds, cfg, classifiers[i], r, o.logger)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for i, nc := range classifiers {
		result.Curves[nc.Name] = curves[i]
	}
	return result, nil
}

// sweepCurve computes one classifier's full curve, threading the supplied
// random sequence through every split in proportion-then-round order.
func sweepCurve(ds *dataset.Dataset, cfg SweepConfig, nc NamedClassifier, r *rand.Rand, logger log.Logger) ([]float64, error) {
	curve := make([]float64, 0, len(cfg.Proportions))

	for _, p := range cfg.Proportions {
		sum := 0.0
		for round := 0; round < cfg.Rounds; round++ {
			errRate, err := evaluateRound(ds, nc.Classifier, p, r)
			if err != nil {
				return nil, errors.NewSweepError(nc.Name, p, round, err)
			}
			sum += errRate
		}

		mean := sum / float64(cfg.Rounds)
		curve = append(curve, mean)

		if logger != nil {
			logger.Debug("sweep curve point computed",
				log.ClassifierKey, nc.Name,
				log.ProportionKey, p,
				log.RoundsKey, cfg.Rounds,
				log.ErrorRateKey, mean,
			)
		}
	}

	return curve, nil
}

// evaluateRound draws one split from the shared sequence, retrains the
// classifier on the training subset, and measures the test error rate.
// Panics raised inside the classifier are recovered into errors.
func evaluateRound(ds *dataset.Dataset, clf model.Estimator, p float64, r *rand.Rand) (float64, error) {
	train, test, err := ShuffleSplit{}.Split(ds.NSamples(), p, r)
	if err != nil {
		return 0, err
	}

	XTrain, yTrain := ds.Subset(train)
	XTest, yTest := ds.Subset(test)

	if err := errors.SafeExecute("fit", func() error {
		return clf.Fit(XTrain, yTrain)
	}); err != nil {
		return 0, err
	}

	var pred mat.Matrix
	if err := errors.SafeExecute("predict", func() error {
		var predictErr error
		pred, predictErr = clf.Predict(XTest)
		return predictErr
	}); err != nil {
		return 0, err
	}

	predRows, _ := pred.Dims()
	if predRows != yTest.Len() {
		return 0, errors.NewDimensionError("Sweep.predict", yTest.Len(), predRows, 0)
	}

	predVec := mat.NewVecDense(predRows, nil)
	for i := 0; i < predRows; i++ {
		predVec.SetVec(i, pred.At(i, 0))
	}

	return metrics.ClassificationError(yTest, predVec)
}
