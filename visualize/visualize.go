// Package visualize renders the pipeline's diagnostic figures to PNG
// files with gonum/plot. Every renderer is observational: it reads the
// table or the model outputs and never mutates anything the modeling path
// consumes. Failures are returned to the caller, which treats them as
// per-plot warnings.
package visualize

import (
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/YuminosukeSato/carprice/pkg/errors"
)

var (
	defaultWidth  = 6 * vg.Inch
	defaultHeight = 4 * vg.Inch
)

func savePlot(p *plot.Plot, path string) error {
	if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
		return errors.Wrapf(err, "visualize: saving %s", path)
	}
	return nil
}

// saveTiled lays the plot grid out on one canvas and writes it as PNG.
// Nil entries leave their tile empty.
func saveTiled(plots [][]*plot.Plot, width, height vg.Length, path string) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "visualize: creating %s", path)
	}
	defer func() { _ = f.Close() }()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrapf(err, "visualize: writing %s", path)
	}
	return nil
}

// finite drops NaN and Inf values.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// finitePairs drops pairs where either coordinate is NaN or Inf.
func finitePairs(xs, ys []float64) (fx, fy []float64) {
	for i := range xs {
		if i >= len(ys) {
			break
		}
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		fx = append(fx, xs[i])
		fy = append(fy, ys[i])
	}
	return fx, fy
}
