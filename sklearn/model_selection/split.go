// Package model_selection provides utilities for splitting datasets and for
// comparing classifiers across randomized train/test partitions.
//
// The central piece is the held-out sweep evaluator (sweep.go), which measures
// mean error rate per classifier across a sequence of held-out proportions.
package model_selection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/dataset"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// ShuffleSplit draws randomized train/test index partitions for a given test
// fraction. The random sequence is supplied explicitly by the caller and is
// never package-global: the n-th partition drawn is deterministic given the
// generator's seed and the number of partitions drawn before it.
type ShuffleSplit struct{}

// SplitSizes computes the train/test sizes for n samples at the given test
// fraction. The test size rounds to nearest, matching the reference behavior
// of treating any fraction in (0,1) as valid input.
func SplitSizes(n int, testFraction float64) (nTrain, nTest int) {
	nTest = int(math.Round(float64(n) * testFraction))
	if nTest > n {
		nTest = n
	}
	return n - nTest, nTest
}

// Split partitions the indices 0..n-1 into a training set and a test set of
// fraction testFraction, drawing the permutation from r.
//
// A fraction that yields an empty train or test subset is a degenerate split
// and is reported as an error rather than silently producing an undefined
// error rate downstream.
func (ShuffleSplit) Split(n int, testFraction float64, r *rand.Rand) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, errors.NewValueError("ShuffleSplit.Split", "need at least 2 samples")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValidationError("testFraction", "must lie strictly between 0 and 1", testFraction)
	}

	nTrain, nTest := SplitSizes(n, testFraction)
	if nTrain == 0 || nTest == 0 {
		return nil, nil, errors.NewDegenerateSplitError(testFraction, n, nTrain, nTest)
	}

	perm := r.Perm(n)
	test = make([]int, nTest)
	copy(test, perm[:nTest])
	train = make([]int, nTrain)
	copy(train, perm[nTest:])

	return train, test, nil
}

// TrainTestSplit partitions a dataset into train and test matrices using a
// single seeded draw. It is a convenience wrapper over ShuffleSplit for
// callers outside the sweep, such as the calibration examples.
func TrainTestSplit(ds *dataset.Dataset, testFraction float64, seed int64) (XTrain *mat.Dense, yTrain *mat.VecDense, XTest *mat.Dense, yTest *mat.VecDense, err error) {
	if ds == nil {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "nil dataset")
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	train, test, err := ShuffleSplit{}.Split(ds.NSamples(), testFraction, r)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "TrainTestSplit")
	}

	XTrain, yTrain = ds.Subset(train)
	XTest, yTest = ds.Subset(test)
	return XTrain, yTrain, XTest, yTest, nil
}
