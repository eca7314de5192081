package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// MakeBlobs generates an isotropic Gaussian blob per class, in the manner of
// scikit-learn's make_blobs. Samples are distributed as evenly as possible
// across nClasses; labels are 0..nClasses-1. The same seed always produces
// the same dataset.
func MakeBlobs(nSamples, nFeatures, nClasses int, clusterStd float64, seed int64) (*Dataset, error) {
	if nSamples < nClasses || nClasses < 2 {
		return nil, errors.NewValidationError("nSamples", "need at least one sample per class and two classes", nSamples)
	}
	if nFeatures < 1 {
		return nil, errors.NewValidationError("nFeatures", "must be positive", nFeatures)
	}
	if clusterStd <= 0 {
		return nil, errors.NewValidationError("clusterStd", "must be positive", clusterStd)
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	// Centers on a fixed grid spaced wide enough to keep blobs separable
	// at moderate clusterStd.
	centers := make([][]float64, nClasses)
	for c := range centers {
		centers[c] = make([]float64, nFeatures)
		for j := range centers[c] {
			centers[c][j] = float64(c*10) + float64(j)
		}
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)

	for i := 0; i < nSamples; i++ {
		class := i % nClasses
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, centers[class][j]+r.NormFloat64()*clusterStd)
		}
		y.SetVec(i, float64(class))
	}

	return New(X, y)
}

// MakeClassification generates a binary classification problem with
// informative Gaussian features whose class-conditional means are shifted,
// plus pure-noise features. It mirrors the synthetic data the comparison
// examples train on.
func MakeClassification(nSamples, nFeatures, nInformative int, classSep float64, seed int64) (*Dataset, error) {
	if nSamples < 2 {
		return nil, errors.NewValidationError("nSamples", "need at least 2 samples", nSamples)
	}
	if nInformative < 1 || nInformative > nFeatures {
		return nil, errors.NewValidationError("nInformative", "must be in [1, nFeatures]", nInformative)
	}
	if classSep <= 0 {
		return nil, errors.NewValidationError("classSep", "must be positive", classSep)
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)

	for i := 0; i < nSamples; i++ {
		class := i % 2
		shift := -classSep
		if class == 1 {
			shift = classSep
		}
		for j := 0; j < nFeatures; j++ {
			v := r.NormFloat64()
			if j < nInformative {
				v += shift
			}
			X.Set(i, j, v)
		}
		y.SetVec(i, float64(class))
	}

	return New(X, y)
}
