package charts

import (
	"bytes"
	"fmt"
	"math"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal/errors"
	"csvexplorer/internal/profiling"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	barChartHeight = 600
	barMinWidth    = 1000
	barWidth       = 40
	barSpacing     = 16
	pieChartSize   = 800

	plotWidth  = 10 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// Chart is a rendered chart image
type Chart struct {
	Kind   Kind                       `json:"kind"`
	Title  string                     `json:"title"`
	XLabel string                     `json:"x_label,omitempty"`
	YLabel string                     `json:"y_label,omitempty"`
	// Values are the drawn bars or pie slices, in drawing order
	Values []profiling.FrequencyEntry `json:"values,omitempty"`
	PNG    []byte                     `json:"-"`
}

// Result is a selection plus, when something could be drawn, the chart.
// A ready plan with nothing to draw carries NoticeNoData in Plan.Notice.
type Result struct {
	Plan  Plan   `json:"plan"`
	Chart *Chart `json:"chart,omitempty"`
}

// Draw selects columns and renders the chart if the selection is ready
func Draw(ds *dataset.Dataset, req Request) (Result, error) {
	plan := Select(ds, req)
	result := Result{Plan: plan}
	if !plan.Ready {
		return result, nil
	}

	c, err := Render(ds, plan)
	if err != nil {
		return result, err
	}
	if c == nil {
		result.Plan.Notice = NoticeNoData
		return result, nil
	}
	result.Chart = c
	return result, nil
}

// Render draws a ready plan. It returns a nil chart when the selected columns hold no
// plottable values.
func Render(ds *dataset.Dataset, plan Plan) (*Chart, error) {
	var (
		c   *Chart
		err error
	)
	switch plan.Kind {
	case KindBar:
		c, err = renderBar(ds, plan.X)
	case KindHistogram:
		c, err = renderHistogram(ds, plan.X)
	case KindPie:
		c, err = renderPie(ds, plan.X)
	case KindScatter:
		c, err = renderScatter(ds, plan.X, plan.Y)
	case KindBox:
		c, err = renderBox(ds, plan.Y, plan.Group)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown chart kind %q", plan.Kind))
	}
	if err != nil {
		return nil, errors.RenderFailed(string(plan.Kind), err)
	}
	if c != nil {
		c.Kind = plan.Kind
	}
	return c, nil
}

func renderBar(ds *dataset.Dataset, col string) (*Chart, error) {
	counts := profiling.CountValuesInOrder(ds, col, false)
	if len(counts) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, len(counts))
	top := 0
	for i, entry := range counts {
		bars[i] = chart.Value{Label: entry.Value, Value: float64(entry.Count)}
		top = max(top, entry.Count)
	}

	c := &Chart{Title: fmt.Sprintf("Bar Chart of %s", col), XLabel: col, YLabel: "Count", Values: counts}
	bc := chart.BarChart{
		Title:      c.Title,
		Width:      max(barMinWidth, len(bars)*(barWidth+barSpacing)+120),
		Height:     barChartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top) * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	c.PNG = buf.Bytes()
	return c, nil
}

func renderPie(ds *dataset.Dataset, col string) (*Chart, error) {
	counts := profiling.CountValues(ds, col, true)
	if len(counts) == 0 {
		return nil, nil
	}
	if len(counts) > MaxPieSlices {
		counts = counts[:MaxPieSlices]
	}

	total := 0
	for _, entry := range counts {
		total += entry.Count
	}

	wedges := make([]chart.Value, len(counts))
	for i, entry := range counts {
		share := 100 * float64(entry.Count) / float64(total)
		wedges[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", entry.Value, share),
			Value: float64(entry.Count),
		}
	}

	c := &Chart{Title: fmt.Sprintf("Pie Chart of %s", col), Values: counts}
	pc := chart.PieChart{
		Title:  c.Title,
		Width:  pieChartSize,
		Height: pieChartSize,
		Values: wedges,
	}

	var buf bytes.Buffer
	if err := pc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	c.PNG = buf.Bytes()
	return c, nil
}

func renderHistogram(ds *dataset.Dataset, col string) (*Chart, error) {
	values := ds.Values(col)
	if len(values) == 0 {
		return nil, nil
	}

	c := &Chart{Title: fmt.Sprintf("Histogram of %s", col), XLabel: col, YLabel: "Frequency"}
	p := newPlot(c)

	hist, err := plotter.NewHist(plotter.Values(values), histogramBins(values))
	if err != nil {
		return nil, err
	}
	p.Add(hist)

	if curve := densityCurve(values, hist.Width); curve != nil {
		line, err := plotter.NewLine(curve)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
	}

	return encodePlot(p, c)
}

func renderScatter(ds *dataset.Dataset, xCol, yCol string) (*Chart, error) {
	xs, ys := ds.Floats(xCol), ds.Floats(yCol)

	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return nil, nil
	}

	c := &Chart{Title: fmt.Sprintf("Scatter Plot of %s vs %s", xCol, yCol), XLabel: xCol, YLabel: yCol}
	p := newPlot(c)

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(s)

	return encodePlot(p, c)
}

func renderBox(ds *dataset.Dataset, yCol, groupCol string) (*Chart, error) {
	if groupCol == "" {
		values := ds.Values(yCol)
		if len(values) == 0 {
			return nil, nil
		}

		c := &Chart{Title: fmt.Sprintf("Box Plot of %s", yCol), YLabel: yCol}
		p := newPlot(c)
		box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(values))
		if err != nil {
			return nil, err
		}
		p.Add(box)
		p.NominalX(yCol)
		return encodePlot(p, c)
	}

	groups, order := groupValues(ds, yCol, groupCol)
	if len(order) == 0 {
		return nil, nil
	}

	c := &Chart{Title: fmt.Sprintf("Box Plot of %s by %s", yCol, groupCol), XLabel: groupCol, YLabel: yCol}
	p := newPlot(c)
	for i, name := range order {
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(groups[name]))
		if err != nil {
			return nil, err
		}
		p.Add(box)
	}
	p.NominalX(order...)
	return encodePlot(p, c)
}

// groupValues splits the non-missing values of yCol by the value of groupCol.
// Rows with a missing group are dropped; groups keep first-appearance order.
func groupValues(ds *dataset.Dataset, yCol, groupCol string) (map[string][]float64, []string) {
	ys := ds.Floats(yCol)
	labels := ds.Records(groupCol)
	missing := ds.Missing(groupCol)

	groups := make(map[string][]float64)
	var order []string
	for i, y := range ys {
		if missing[i] || math.IsNaN(y) {
			continue
		}
		name := labels[i]
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], y)
	}
	return groups, order
}

func newPlot(c *Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())
	return p
}

func encodePlot(p *plot.Plot, c *Chart) (*Chart, error) {
	w, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	c.PNG = buf.Bytes()
	return c, nil
}
