package visualize

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
)

// kdeCurve evaluates a Gaussian kernel density estimate of values on a
// regular grid, using Silverman's rule of thumb for the bandwidth. It
// returns nil when the sample has no spread, in which case the histogram
// alone is the honest picture.
func kdeCurve(values []float64, steps int) plotter.XYs {
	n := len(values)
	if n < 2 {
		return nil
	}
	sigma := stat.StdDev(values, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return nil
	}
	h := 1.06 * sigma * math.Pow(float64(n), -0.2)

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	lo -= 3 * h
	hi += 3 * h

	norm := 1 / (float64(n) * h * math.Sqrt(2*math.Pi))
	pts := make(plotter.XYs, steps)
	for i := 0; i < steps; i++ {
		x := lo + (hi-lo)*float64(i)/float64(steps-1)
		var density float64
		for _, v := range values {
			z := (x - v) / h
			density += math.Exp(-0.5 * z * z)
		}
		pts[i].X = x
		pts[i].Y = density * norm
	}
	return pts
}
