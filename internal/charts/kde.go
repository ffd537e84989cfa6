package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
)

const (
	maxHistogramBins = 500
	kdeGridPoints    = 200
)

// histogramBins picks the larger of the Sturges and Freedman-Diaconis bin counts
func histogramBins(values []float64) int {
	n := len(values)
	if n < 2 {
		return 1
	}

	sturges := int(math.Ceil(math.Log2(float64(n)))) + 1

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	span := sorted[n-1] - sorted[0]
	if span == 0 {
		return 1
	}

	iqr := stat.Quantile(0.75, stat.LinInterp, sorted, nil) - stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	fd := 0
	if iqr > 0 {
		width := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
		fd = int(math.Ceil(span / width))
	}

	bins := max(sturges, fd)
	return min(bins, maxHistogramBins)
}

// densityCurve evaluates a Gaussian kernel density estimate over the data range using
// Scott's bandwidth, scaled so its area matches a histogram with the given bin width.
// It returns nil when the estimate is undefined.
func densityCurve(values []float64, binWidth float64) plotter.XYs {
	n := len(values)
	if n < 2 {
		return nil
	}

	std := stat.StdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	bandwidth := std * math.Pow(float64(n), -1.0/5.0)

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	scale := float64(n) * binWidth
	kernel := distuv.Normal{Mu: 0, Sigma: bandwidth}

	curve := make(plotter.XYs, kdeGridPoints)
	step := (hi - lo) / float64(kdeGridPoints-1)
	for i := range curve {
		x := lo + float64(i)*step
		density := 0.0
		for _, v := range values {
			density += kernel.Prob(x - v)
		}
		curve[i] = plotter.XY{X: x, Y: density / float64(n) * scale}
	}
	return curve
}
