package visualize

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/carprice/dataset"
	"github.com/YuminosukeSato/carprice/pkg/errors"
)

const histBins = 30

// ColorFrequency renders the color counts as a bar chart in the fixed
// five-color order of the filter chain.
func ColorFrequency(df dataframe.DataFrame, path string) error {
	if !dataset.HasColumn(df, dataset.ColColor) {
		return errors.NewSchemaError("visualize.ColorFrequency", dataset.ColColor)
	}

	counts := make(map[string]float64)
	for _, v := range df.Col(dataset.ColColor).Records() {
		counts[v]++
	}
	values := make(plotter.Values, len(dataset.ColorSet))
	for i, c := range dataset.ColorSet {
		values[i] = counts[c]
	}

	p := plot.New()
	p.Title.Text = "Advertisement count by color"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return errors.Wrap(err, "visualize.ColorFrequency")
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(dataset.ColorSet...)

	return savePlot(p, path)
}

// MileageDistribution renders a 30-bin histogram of Runned_Miles with a
// kernel density overlay.
func MileageDistribution(df dataframe.DataFrame, path string) error {
	return distribution(df, dataset.ColRunnedMiles, "Mileage distribution", "Runned miles", path)
}

// PriceDistribution renders a 30-bin histogram of Price with a kernel
// density overlay.
func PriceDistribution(df dataframe.DataFrame, path string) error {
	return distribution(df, dataset.ColPrice, "Price distribution", "Price", path)
}

func distribution(df dataframe.DataFrame, column, title, label, path string) error {
	if !dataset.HasColumn(df, column) {
		return errors.NewSchemaError("visualize.distribution", column)
	}
	values := finite(df.Col(column).Float())
	if len(values) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "visualize.distribution: "+column)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = label
	p.Y.Label.Text = "Density"

	hist, err := plotter.NewHist(plotter.Values(values), histBins)
	if err != nil {
		return errors.Wrap(err, "visualize.distribution")
	}
	hist.Normalize(1)
	hist.FillColor = plotutil.Color(0)
	p.Add(hist)

	if pts := kdeCurve(values, 200); pts != nil {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrap(err, "visualize.distribution")
		}
		line.Color = plotutil.Color(1)
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	return savePlot(p, path)
}

// ScatterMatrix renders the pairwise scatter grid of the numeric columns,
// with per-column histograms on the diagonal.
func ScatterMatrix(df dataframe.DataFrame, path string) error {
	var columns []string
	for _, name := range dataset.NumericColumns {
		if dataset.HasColumn(df, name) {
			columns = append(columns, name)
		}
	}
	if len(columns) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "visualize.ScatterMatrix: no numeric columns")
	}

	k := len(columns)
	grid := make([][]*plot.Plot, k)
	for i := range grid {
		grid[i] = make([]*plot.Plot, k)
		for j := range grid[i] {
			p := plot.New()
			if i == k-1 {
				p.X.Label.Text = columns[j]
			}
			if j == 0 {
				p.Y.Label.Text = columns[i]
			}

			if i == j {
				values := finite(df.Col(columns[i]).Float())
				if len(values) == 0 {
					grid[i][j] = p
					continue
				}
				hist, err := plotter.NewHist(plotter.Values(values), 16)
				if err != nil {
					return errors.Wrap(err, "visualize.ScatterMatrix")
				}
				hist.FillColor = plotutil.Color(0)
				p.Add(hist)
			} else {
				xs, ys := finitePairs(df.Col(columns[j]).Float(), df.Col(columns[i]).Float())
				pts := make(plotter.XYs, len(xs))
				for n := range xs {
					pts[n].X = xs[n]
					pts[n].Y = ys[n]
				}
				sc, err := plotter.NewScatter(pts)
				if err != nil {
					return errors.Wrap(err, "visualize.ScatterMatrix")
				}
				sc.GlyphStyle.Color = plotutil.Color(0)
				sc.GlyphStyle.Radius = vg.Points(1.5)
				p.Add(sc)
			}
			grid[i][j] = p
		}
	}

	side := vg.Length(k) * 3 * vg.Inch
	return saveTiled(grid, side, side, path)
}

// PriceByFuelBox renders price box plots per fuel type.
func PriceByFuelBox(df dataframe.DataFrame, path string) error {
	return groupedBox(df, dataset.ColFuelType, dataset.FuelSet, "Price by fuel type", path)
}

// PriceByColorBox renders price box plots per color, in the fixed color
// order.
func PriceByColorBox(df dataframe.DataFrame, path string) error {
	return groupedBox(df, dataset.ColColor, dataset.ColorSet, "Price by color", path)
}

func groupedBox(df dataframe.DataFrame, groupCol string, groups []string, title, path string) error {
	for _, col := range []string{groupCol, dataset.ColPrice} {
		if !dataset.HasColumn(df, col) {
			return errors.NewSchemaError("visualize.groupedBox", col)
		}
	}

	labels := df.Col(groupCol).Records()
	prices := df.Col(dataset.ColPrice).Float()

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Price"

	for i, g := range groups {
		var values plotter.Values
		for n, lab := range labels {
			if lab != g || n >= len(prices) {
				continue
			}
			values = append(values, prices[n])
		}
		values = plotter.Values(finite(values))
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), values)
		if err != nil {
			return errors.Wrap(err, "visualize.groupedBox")
		}
		p.Add(box)
	}
	p.NominalX(groups...)

	return savePlot(p, path)
}

// PriceMileageScatter renders price against mileage with one glyph color
// per fuel type.
func PriceMileageScatter(df dataframe.DataFrame, path string) error {
	for _, col := range []string{dataset.ColFuelType, dataset.ColPrice, dataset.ColRunnedMiles} {
		if !dataset.HasColumn(df, col) {
			return errors.NewSchemaError("visualize.PriceMileageScatter", col)
		}
	}

	fuels := df.Col(dataset.ColFuelType).Records()
	miles := df.Col(dataset.ColRunnedMiles).Float()
	prices := df.Col(dataset.ColPrice).Float()

	p := plot.New()
	p.Title.Text = "Price vs mileage"
	p.X.Label.Text = "Runned miles"
	p.Y.Label.Text = "Price"

	for i, fuel := range dataset.FuelSet {
		var xs, ys []float64
		for n, f := range fuels {
			if f != fuel || n >= len(miles) || n >= len(prices) {
				continue
			}
			xs = append(xs, miles[n])
			ys = append(ys, prices[n])
		}
		xs, ys = finitePairs(xs, ys)
		pts := make(plotter.XYs, len(xs))
		for n := range xs {
			pts[n].X = xs[n]
			pts[n].Y = ys[n]
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Wrap(err, "visualize.PriceMileageScatter")
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(fuel, sc)
	}
	p.Legend.Top = true

	return savePlot(p, path)
}
