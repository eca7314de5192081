// Package evalgo provides classifier evaluation tooling for Go, built
// around repeated random train/test splits and error-rate curves.
//
// evalgo offers a scikit-learn-like API: estimators expose Fit and
// Predict, data flows through gonum matrices, and evaluation utilities
// compare classifiers across a sweep of held-out proportions.
//
// # Quick Start
//
// Sweep two classifiers across held-out proportions:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/evalgo/dataset"
//	    "github.com/YuminosukeSato/evalgo/sklearn/dummy"
//	    "github.com/YuminosukeSato/evalgo/sklearn/linear_model"
//	    "github.com/YuminosukeSato/evalgo/sklearn/model_selection"
//	)
//
//	func main() {
//	    ds, err := dataset.MakeClassification(200, 4, 3, 1.5, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := model_selection.Sweep(ds, model_selection.SweepConfig{
//	        Proportions: []float64{0.1, 0.3, 0.5},
//	        Rounds:      10,
//	        Seed:        42,
//	    }, []model_selection.NamedClassifier{
//	        {Name: "Majority", Classifier: dummy.NewDummyClassifier()},
//	        {Name: "Perceptron", Classifier: linear_model.NewPerceptron()},
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, name := range result.Names {
//	        curve, _ := result.Curve(name)
//	        fmt.Println(name, curve)
//	    }
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - dataset: In-memory datasets, synthetic generators, subsetting
//   - sklearn/model_selection: Random splits and the proportion sweep
//   - sklearn/linear_model: Perceptron, SGD, passive-aggressive, logistic
//   - sklearn/naive_bayes: Gaussian and multinomial naive Bayes
//   - sklearn/dummy: Baseline classifiers
//   - sklearn/calibration: Probability calibration and reliability curves
//   - preprocessing: Feature scaling
//   - metrics: Classification error, accuracy, Brier score
//   - plotting: Error-rate and reliability diagrams
//   - core/model: Core interfaces and fitted-state management
//   - core/parallel: Parallel processing utilities
//
// All estimators are deterministic given a random seed, so evaluation
// runs are reproducible.
package evalgo
