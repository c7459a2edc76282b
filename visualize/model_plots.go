package visualize

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/carprice/inspection"
	"github.com/YuminosukeSato/carprice/pkg/errors"
)

// PredictedVsActual renders the test-set predictions against the true
// prices with the y=x reference diagonal.
func PredictedVsActual(yTrue, yPred *mat.VecDense, path string) error {
	n := yTrue.Len()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "visualize.PredictedVsActual")
	}
	if yPred.Len() != n {
		return errors.NewDimensionError("visualize.PredictedVsActual", n, yPred.Len(), 0)
	}

	p := plot.New()
	p.Title.Text = "Predicted vs actual price (test set)"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, n)
	lo, hi := yTrue.AtVec(0), yTrue.AtVec(0)
	for i := 0; i < n; i++ {
		a, pr := yTrue.AtVec(i), yPred.AtVec(i)
		pts[i].X = a
		pts[i].Y = pr
		for _, v := range []float64{a, pr} {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "visualize.PredictedVsActual")
	}
	sc.GlyphStyle.Color = plotutil.Color(0)
	sc.GlyphStyle.Radius = vg.Points(2)
	p.Add(sc)

	diag, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "visualize.PredictedVsActual")
	}
	diag.Color = plotutil.Color(1)
	diag.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diag)

	return savePlot(p, path)
}

// ImportancePanel renders the two importance diagnostics side by side:
// a horizontal bar chart of impurity importances sorted ascending (so the
// strongest feature reads first at the top) and box plots of the
// permutation importance distributions sorted by mean, descending.
func ImportancePanel(names []string, impurity []float64, perm *inspection.Result, path string) error {
	if len(names) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "visualize.ImportancePanel")
	}
	if len(impurity) != len(names) {
		return errors.NewDimensionError("visualize.ImportancePanel", len(names), len(impurity), 1)
	}
	if perm == nil || len(perm.ImportancesMean) != len(names) {
		return errors.NewValueError("visualize.ImportancePanel", "permutation result does not match feature names")
	}

	left, err := impurityBarChart(names, impurity)
	if err != nil {
		return err
	}
	right, err := permutationBoxes(names, perm)
	if err != nil {
		return err
	}

	return saveTiled([][]*plot.Plot{{left, right}}, 12*vg.Inch, 5*vg.Inch, path)
}

func impurityBarChart(names []string, impurity []float64) (*plot.Plot, error) {
	order := sortedIndices(impurity, true)

	values := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for i, idx := range order {
		values[i] = impurity[idx]
		labels[i] = names[idx]
	}

	p := plot.New()
	p.Title.Text = "Impurity importance"
	p.X.Label.Text = "Importance"

	bars, err := plotter.NewBarChart(values, vg.Points(8))
	if err != nil {
		return nil, errors.Wrap(err, "visualize.impurityBarChart")
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalY(labels...)

	return p, nil
}

func permutationBoxes(names []string, perm *inspection.Result) (*plot.Plot, error) {
	order := sortedIndices(perm.ImportancesMean, false)

	p := plot.New()
	p.Title.Text = "Permutation importance"
	p.Y.Label.Text = "R² decrease"

	labels := make([]string, len(order))
	for i, idx := range order {
		labels[i] = names[idx]
		box, err := plotter.NewBoxPlot(vg.Points(12), float64(i), plotter.Values(perm.Importances[idx]))
		if err != nil {
			return nil, errors.Wrap(err, "visualize.permutationBoxes")
		}
		p.Add(box)
	}
	p.NominalX(labels...)

	return p, nil
}

// sortedIndices returns the index order that sorts values ascending or
// descending, stable with respect to the original order.
func sortedIndices(values []float64, ascending bool) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if ascending {
			return values[order[a]] < values[order[b]]
		}
		return values[order[a]] > values[order[b]]
	})
	return order
}
