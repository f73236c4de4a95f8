package services

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"furniture-survey-analysis/models"
)

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	return p
}

// barChart renders a vertical bar chart of a distribution's counts.
func barChart(dist models.Distribution, title, xlabel, ylabel string) (*plot.Plot, error) {
	values := make(plotter.Values, len(dist))
	labels := make([]string, len(dist))
	for i, e := range dist {
		values[i] = float64(e.Count)
		labels[i] = e.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, fmt.Errorf("plots: bar chart %q: %w", title, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)

	p := newPlot(title, xlabel, ylabel)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// horizontalBarChart renders a distribution with category labels on the Y axis.
func horizontalBarChart(dist models.Distribution, title, xlabel, ylabel string) (*plot.Plot, error) {
	values := make(plotter.Values, len(dist))
	labels := make([]string, len(dist))
	for i, e := range dist {
		values[i] = float64(e.Count)
		labels[i] = e.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("plots: horizontal bar chart %q: %w", title, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(2)
	bars.Horizontal = true

	p := newPlot(title, xlabel, ylabel)
	p.Add(bars)
	p.NominalY(labels...)
	return p, nil
}

// percentageBarChart renders a distribution by percentage share.
func percentageBarChart(dist models.Distribution, title string) (*plot.Plot, error) {
	values := make(plotter.Values, len(dist))
	labels := make([]string, len(dist))
	for i, e := range dist {
		values[i] = e.Percentage
		labels[i] = fmt.Sprintf("%s (%.1f%%)", e.Label, e.Percentage)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("plots: percentage chart %q: %w", title, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(1)

	p := newPlot(title, "", "Share (%)")
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// stackedBarChart renders a cross-tab as stacked bars, one stack per row
// label and one color per column label.
func stackedBarChart(ct *models.CrossTab, title string) (*plot.Plot, error) {
	p := newPlot(title, "", "Count")

	var prev *plotter.BarChart
	for c, colLabel := range ct.Cols {
		values := make(plotter.Values, len(ct.Rows))
		for r := range ct.Rows {
			values[r] = float64(ct.Counts[r][c])
		}
		bars, err := plotter.NewBarChart(values, vg.Points(24))
		if err != nil {
			return nil, fmt.Errorf("plots: stacked bar chart %q: %w", title, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(c)
		if prev != nil {
			bars.StackOn(prev)
		}
		p.Add(bars)
		p.Legend.Add(colLabel, bars)
		prev = bars
	}

	p.Legend.Top = true
	p.NominalX(ct.Rows...)
	return p, nil
}

// crossTabGrid adapts a cross-tab count matrix to the heat map grid interface.
type crossTabGrid struct {
	ct *models.CrossTab
}

func (g crossTabGrid) Dims() (c, r int)   { return len(g.ct.Cols), len(g.ct.Rows) }
func (g crossTabGrid) Z(c, r int) float64 { return float64(g.ct.Counts[r][c]) }
func (g crossTabGrid) X(c int) float64    { return float64(c) }
func (g crossTabGrid) Y(r int) float64    { return float64(r) }

// heatmapChart renders a cross-tab count matrix as a heat map.
func heatmapChart(ct *models.CrossTab, title string) (*plot.Plot, error) {
	hm := plotter.NewHeatMap(crossTabGrid{ct: ct}, palette.Heat(12, 1))

	p := newPlot(title, ct.ColField, ct.RowField)
	p.Add(hm)
	p.NominalX(ct.Cols...)
	p.NominalY(ct.Rows...)
	return p, nil
}

// matrixGrid adapts a square float matrix (correlations) to the grid interface.
type matrixGrid struct {
	labels []string
	m      [][]float64
}

func (g matrixGrid) Dims() (c, r int)   { return len(g.labels), len(g.labels) }
func (g matrixGrid) Z(c, r int) float64 { return g.m[r][c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// correlationHeatmap renders a correlation matrix as a heat map.
func correlationHeatmap(labels []string, m [][]float64, title string) (*plot.Plot, error) {
	hm := plotter.NewHeatMap(matrixGrid{labels: labels, m: m}, palette.Heat(12, 1))

	p := newPlot(title, "", "")
	p.Add(hm)
	p.NominalX(labels...)
	p.NominalY(labels...)
	return p, nil
}

// histogramChart renders values as a histogram with optional vertical marker
// lines (used for bootstrap means and confidence bounds).
func histogramChart(values []float64, bins int, title, xlabel string, markers ...float64) (*plot.Plot, error) {
	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, fmt.Errorf("plots: histogram %q: %w", title, err)
	}

	p := newPlot(title, xlabel, "Frequency")
	p.Add(hist)

	_, _, _, maxY := hist.DataRange()
	if math.IsInf(maxY, 0) || maxY <= 0 {
		maxY = 1
	}
	for i, x := range markers {
		line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: maxY}})
		if err != nil {
			return nil, fmt.Errorf("plots: marker line %q: %w", title, err)
		}
		line.Width = vg.Points(1.5)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		line.Color = plotutil.Color(i + 1)
		p.Add(line)
	}
	return p, nil
}

// lineChart renders y over x as a connected line with point glyphs (scree and
// elbow curves).
func lineChart(xs, ys []float64, title, xlabel, ylabel string) (*plot.Plot, error) {
	points := make(plotter.XYs, len(xs))
	for i := range xs {
		points[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}

	line, scatter, err := plotter.NewLinePoints(points)
	if err != nil {
		return nil, fmt.Errorf("plots: line chart %q: %w", title, err)
	}
	line.Width = vg.Points(1.5)
	scatter.GlyphStyle.Radius = vg.Points(3)

	p := newPlot(title, xlabel, ylabel)
	p.Add(plotter.NewGrid(), line, scatter)
	return p, nil
}

// scatterChart renders paired observations.
func scatterChart(x, y []float64, title, xlabel, ylabel string) (*plot.Plot, error) {
	points := make(plotter.XYs, len(x))
	for i := range x {
		points[i] = plotter.XY{X: x[i], Y: y[i]}
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("plots: scatter %q: %w", title, err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.Color = plotutil.Color(0)

	p := newPlot(title, xlabel, ylabel)
	p.Add(plotter.NewGrid(), scatter)
	return p, nil
}
