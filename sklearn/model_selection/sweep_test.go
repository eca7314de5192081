package model_selection

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/evalgo/dataset"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
	"github.com/YuminosukeSato/evalgo/pkg/log"
	"github.com/YuminosukeSato/evalgo/sklearn/dummy"
)

// failingClassifier fails on the given round's Fit call.
type failingClassifier struct {
	fitCalls  int
	failAfter int
}

func (f *failingClassifier) Fit(X, y mat.Matrix) error {
	f.fitCalls++
	if f.fitCalls > f.failAfter {
		return errors.New("synthetic fit failure")
	}
	return nil
}

func (f *failingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	return mat.NewDense(rows, 1, nil), nil
}

// panickingClassifier panics inside Fit.
type panickingClassifier struct{}

func (panickingClassifier) Fit(X, y mat.Matrix) error {
	panic("index out of range in synthetic classifier")
}

func (panickingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	return nil, errors.New("unreachable")
}

func blobsDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.MakeClassification(100, 4, 4, 2.0, 3)
	if err != nil {
		t.Fatalf("MakeClassification failed: %v", err)
	}
	return ds
}

func TestSweepCurveShape(t *testing.T) {
	ds := blobsDataset(t)
	cfg := SweepConfig{
		Proportions: []float64{0.95, 0.7, 0.5, 0.3, 0.1},
		Rounds:      3,
		Seed:        42,
	}

	result, err := Sweep(ds, cfg, []NamedClassifier{
		{Name: "majority", Classifier: dummy.NewDummyClassifier()},
		{Name: "stratified", Classifier: dummy.NewDummyClassifier(
			dummy.WithDummyStrategy(dummy.StrategyStratified),
			dummy.WithDummyRandomState(1),
		)},
	})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if got := []string{"majority", "stratified"}; len(result.Names) != 2 ||
		result.Names[0] != got[0] || result.Names[1] != got[1] {
		t.Errorf("Names = %v, want %v", result.Names, got)
	}

	for _, name := range result.Names {
		curve, ok := result.Curve(name)
		if !ok {
			t.Fatalf("missing curve for %q", name)
		}
		if len(curve) != len(cfg.Proportions) {
			t.Errorf("curve %q has %d points, want %d", name, len(curve), len(cfg.Proportions))
		}
		for i, v := range curve {
			if v < 0 || v > 1 {
				t.Errorf("curve %q point %d = %v, want value in [0,1]", name, i, v)
			}
		}
	}
}

func TestSweepDeterministic(t *testing.T) {
	ds := blobsDataset(t)
	cfg := SweepConfig{Proportions: []float64{0.8, 0.5, 0.2}, Rounds: 5, Seed: 7}

	run := func() *SweepResult {
		result, err := Sweep(ds, cfg, []NamedClassifier{
			{Name: "majority", Classifier: dummy.NewDummyClassifier()},
		})
		if err != nil {
			t.Fatalf("Sweep failed: %v", err)
		}
		return result
	}

	a := run()
	b := run()
	curveA, _ := a.Curve("majority")
	curveB, _ := b.Curve("majority")
	for i := range curveA {
		if curveA[i] != curveB[i] {
			t.Errorf("curves differ at point %d for identical seeds: %v vs %v",
				i, curveA[i], curveB[i])
		}
	}
}

func TestSweepSingleClassZeroError(t *testing.T) {
	// Every label equal: the majority baseline can never be wrong, so
	// every curve point must be exactly zero at every proportion.
	X := mat.NewDense(20, 2, nil)
	y := mat.NewVecDense(20, nil)
	for i := 0; i < 20; i++ {
		X.Set(i, 0, float64(i))
		y.SetVec(i, 1)
	}
	ds, err := dataset.New(X, y)
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}

	cfg := SweepConfig{Proportions: []float64{0.9, 0.5, 0.1}, Rounds: 4, Seed: 0}
	result, err := Sweep(ds, cfg, []NamedClassifier{
		{Name: "majority", Classifier: dummy.NewDummyClassifier()},
	})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	curve, _ := result.Curve("majority")
	for i, v := range curve {
		if v != 0 {
			t.Errorf("curve point %d = %v, want exactly 0", i, v)
		}
	}
}

func TestSweepConfigValidation(t *testing.T) {
	ds := blobsDataset(t)
	clf := []NamedClassifier{{Name: "majority", Classifier: dummy.NewDummyClassifier()}}

	tests := []struct {
		name string
		cfg  SweepConfig
	}{
		{"empty proportions", SweepConfig{Proportions: nil, Rounds: 1, Seed: 0}},
		{"zero rounds", SweepConfig{Proportions: []float64{0.5}, Rounds: 0, Seed: 0}},
		{"negative rounds", SweepConfig{Proportions: []float64{0.5}, Rounds: -1, Seed: 0}},
		{"proportion zero", SweepConfig{Proportions: []float64{0}, Rounds: 1, Seed: 0}},
		{"proportion one", SweepConfig{Proportions: []float64{1}, Rounds: 1, Seed: 0}},
		{"proportion above one", SweepConfig{Proportions: []float64{1.2}, Rounds: 1, Seed: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Sweep(ds, tt.cfg, clf); err == nil {
				t.Error("Sweep succeeded, want configuration error")
			}
		})
	}
}

func TestSweepDegenerateProportionFailsUpfront(t *testing.T) {
	ds, err := dataset.MakeClassification(10, 2, 2, 2.0, 1)
	if err != nil {
		t.Fatalf("MakeClassification failed: %v", err)
	}

	// 0.999 of 10 samples rounds to a 10-sample test set and an empty
	// training set; the sweep must refuse before running any round.
	cfg := SweepConfig{Proportions: []float64{0.5, 0.999}, Rounds: 2, Seed: 0}
	fc := &failingClassifier{failAfter: 1 << 30}
	_, err = Sweep(ds, cfg, []NamedClassifier{{Name: "never-fails", Classifier: fc}})
	if err == nil {
		t.Fatal("Sweep succeeded, want degenerate split error")
	}

	var dse *errors.DegenerateSplitError
	if !errors.As(err, &dse) {
		t.Fatalf("error %v is not a DegenerateSplitError", err)
	}
	if dse.NTrain != 0 || dse.NTest != 10 {
		t.Errorf("degenerate sizes = (train=%d, test=%d), want (0, 10)", dse.NTrain, dse.NTest)
	}
	if fc.fitCalls != 0 {
		t.Errorf("classifier was fitted %d times before validation failed", fc.fitCalls)
	}
}

func TestSweepClassifierListValidation(t *testing.T) {
	ds := blobsDataset(t)
	cfg := SweepConfig{Proportions: []float64{0.5}, Rounds: 1, Seed: 0}

	if _, err := Sweep(ds, cfg, nil); err == nil {
		t.Error("Sweep with no classifiers succeeded, want error")
	}
	if _, err := Sweep(ds, cfg, []NamedClassifier{{Name: "x", Classifier: nil}}); err == nil {
		t.Error("Sweep with nil classifier succeeded, want error")
	}
	dup := []NamedClassifier{
		{Name: "same", Classifier: dummy.NewDummyClassifier()},
		{Name: "same", Classifier: dummy.NewDummyClassifier()},
	}
	if _, err := Sweep(ds, cfg, dup); err == nil {
		t.Error("Sweep with duplicate names succeeded, want error")
	}
}

func TestSweepFailureReportsContext(t *testing.T) {
	ds := blobsDataset(t)
	cfg := SweepConfig{Proportions: []float64{0.5, 0.3}, Rounds: 2, Seed: 9}

	// Fails on the second fit: proportion 0.5, round index 1.
	fc := &failingClassifier{failAfter: 1}
	_, err := Sweep(ds, cfg, []NamedClassifier{{Name: "flaky", Classifier: fc}})
	if err == nil {
		t.Fatal("Sweep succeeded, want fit failure")
	}

	var se *errors.SweepError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a SweepError", err)
	}
	if se.Classifier != "flaky" {
		t.Errorf("Classifier = %q, want %q", se.Classifier, "flaky")
	}
	if se.Proportion != 0.5 {
		t.Errorf("Proportion = %v, want 0.5", se.Proportion)
	}
	if se.Round != 1 {
		t.Errorf("Round = %d, want 1", se.Round)
	}
}

func TestSweepRecoversClassifierPanic(t *testing.T) {
	ds := blobsDataset(t)
	cfg := SweepConfig{Proportions: []float64{0.5}, Rounds: 1, Seed: 0}

	_, err := Sweep(ds, cfg, []NamedClassifier{{Name: "broken", Classifier: panickingClassifier{}}})
	if err == nil {
		t.Fatal("Sweep succeeded, want recovered panic as error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %v does not name the failing classifier", err)
	}
}

func TestSweepIndependentStreamsDeterministic(t *testing.T) {
	ds := blobsDataset(t)
	cfg := SweepConfig{Proportions: []float64{0.8, 0.4}, Rounds: 3, Seed: 21}
	classifiers := func() []NamedClassifier {
		return []NamedClassifier{
			{Name: "a", Classifier: dummy.NewDummyClassifier()},
			{Name: "b", Classifier: dummy.NewDummyClassifier()},
		}
	}

	r1, err := Sweep(ds, cfg, classifiers(), WithIndependentStreams())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	r2, err := Sweep(ds, cfg, classifiers(), WithIndependentStreams())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	for _, name := range []string{"a", "b"} {
		c1, _ := r1.Curve(name)
		c2, _ := r2.Curve(name)
		if len(c1) != len(cfg.Proportions) {
			t.Fatalf("curve %q has %d points, want %d", name, len(c1), len(cfg.Proportions))
		}
		for i := range c1 {
			if c1[i] != c2[i] {
				t.Errorf("independent-stream curves for %q differ at %d", name, i)
			}
		}
	}
}

func TestSweepResultAccessors(t *testing.T) {
	result := &SweepResult{
		Proportions: []float64{0.5, 0.3},
		Names:       []string{"clf"},
		Curves:      map[string][]float64{"clf": {0.2, 0.4}},
	}

	if mean := result.MeanError("clf"); math.Abs(mean-0.3) > 1e-12 {
		t.Errorf("MeanError = %v, want 0.3", mean)
	}
	if std := result.StdError("clf"); std <= 0.14 || std >= 0.15 {
		// sample std of {0.2, 0.4} is about 0.1414
		t.Errorf("StdError = %v, want about 0.1414", std)
	}
	if mean := result.MeanError("missing"); mean != 0 {
		t.Errorf("MeanError for unknown name = %v, want 0", mean)
	}
	if _, ok := result.Curve("missing"); ok {
		t.Error("Curve reported a curve for an unknown name")
	}
}

func TestSweepLogsCurvePoints(t *testing.T) {
	ds := blobsDataset(t)
	cfg := SweepConfig{Proportions: []float64{0.5, 0.2}, Rounds: 1, Seed: 4}
	logger, _ := log.NewTestLogger(log.LevelDebug)

	_, err := Sweep(ds, cfg, []NamedClassifier{
		{Name: "majority", Classifier: dummy.NewDummyClassifier()},
	}, WithSweepLogger(logger))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries failed: %v", err)
	}
	if len(entries) != len(cfg.Proportions) {
		t.Fatalf("logged %d curve points, want %d", len(entries), len(cfg.Proportions))
	}
	if entries[0][log.ClassifierKey] != "majority" {
		t.Errorf("first entry classifier = %v, want majority", entries[0][log.ClassifierKey])
	}
}

// Averaging more rounds should smooth the curve: the spread of a curve
// value across independent sweeps shrinks as Rounds grows.
func TestSweepVarianceShrinksWithRounds(t *testing.T) {
	ds := blobsDataset(t)

	curvePoint := func(rounds int, seed int64) float64 {
		clf := []NamedClassifier{{Name: "stratified", Classifier: dummy.NewDummyClassifier(
			dummy.WithDummyStrategy(dummy.StrategyStratified),
		)}}
		cfg := SweepConfig{Proportions: []float64{0.5}, Rounds: rounds, Seed: seed}
		result, err := Sweep(ds, cfg, clf)
		if err != nil {
			t.Fatalf("Sweep failed: %v", err)
		}
		curve, _ := result.Curve("stratified")
		return curve[0]
	}

	const seeds = 30
	single := make([]float64, seeds)
	averaged := make([]float64, seeds)
	for s := 0; s < seeds; s++ {
		single[s] = curvePoint(1, int64(s))
		averaged[s] = curvePoint(20, int64(s))
	}

	varSingle := stat.Variance(single, nil)
	varAveraged := stat.Variance(averaged, nil)
	if varAveraged >= varSingle {
		t.Errorf("variance across seeds did not shrink: rounds=1 gives %v, rounds=20 gives %v",
			varSingle, varAveraged)
	}
}
