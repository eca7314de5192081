// Package plotting renders evaluation results as charts using gonum/plot.
package plotting

import (
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
	"github.com/YuminosukeSato/evalgo/sklearn/model_selection"
)

// SolverComparison plots one error-rate line per classifier from a sweep
// result. The x axis is the training proportion (1 minus the held-out
// proportion), so curves read left to right as "more training data".
func SolverComparison(result *model_selection.SweepResult, title string) (*plot.Plot, error) {
	if result == nil || len(result.Names) == 0 {
		return nil, errors.ErrEmptyData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Proportion of training data"
	p.Y.Label.Text = "Test error rate"
	p.Y.Min = 0
	p.Legend.Top = true

	for i, name := range result.Names {
		curve, ok := result.Curve(name)
		if !ok {
			return nil, errors.NewValueError("SolverComparison", "missing curve for classifier "+name)
		}
		if len(curve) != len(result.Proportions) {
			return nil, errors.NewDimensionError("SolverComparison", len(result.Proportions), len(curve), 0)
		}

		pts := make(plotter.XYs, len(curve))
		for j, errRate := range curve {
			pts[j].X = 1 - result.Proportions[j]
			pts[j].Y = errRate
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrap(err, "evalgo: building error-rate line")
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	return p, nil
}

// ReliabilityDiagram plots observed fraction of positives against mean
// predicted probability, with the diagonal marking perfect calibration.
// Each named series is one calibration curve.
func ReliabilityDiagram(curves map[string][2][]float64, title string) (*plot.Plot, error) {
	if len(curves) == 0 {
		return nil, errors.ErrEmptyData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Mean predicted probability"
	p.Y.Label.Text = "Fraction of positives"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true

	diagonal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, errors.Wrap(err, "evalgo: building reference diagonal")
	}
	diagonal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diagonal)
	p.Legend.Add("perfectly calibrated", diagonal)

	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		curve := curves[name]
		meanPredicted, fractionPositives := curve[0], curve[1]
		if len(meanPredicted) != len(fractionPositives) {
			return nil, errors.NewDimensionError("ReliabilityDiagram", len(meanPredicted), len(fractionPositives), 0)
		}

		pts := make(plotter.XYs, len(meanPredicted))
		for j := range meanPredicted {
			pts[j].X = meanPredicted[j]
			pts[j].Y = fractionPositives[j]
		}

		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, errors.Wrap(err, "evalgo: building calibration curve")
		}
		line.Color = plotutil.Color(i)
		scatter.Color = plotutil.Color(i)
		p.Add(line, scatter)
		p.Legend.Add(name, line, scatter)
	}

	return p, nil
}

// SavePNG writes a plot as a PNG of the given size in inches.
func SavePNG(p *plot.Plot, widthInches, heightInches float64, path string) error {
	if p == nil {
		return errors.NewValueError("SavePNG", "nil plot")
	}
	if err := p.Save(vg.Length(widthInches)*vg.Inch, vg.Length(heightInches)*vg.Inch, path); err != nil {
		return errors.Wrap(err, "evalgo: saving plot")
	}
	return nil
}
