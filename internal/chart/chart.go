// Package chart renders the summary charts as static PNG files.
package chart

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var errNoBars = errors.New("no bars to render")

// Bar is one labeled value.
type Bar struct {
	Label string
	Value float64
}

// Series is one named group of values in a grouped chart, aligned with the
// shared label slice.
type Series struct {
	Name   string
	Values []float64
}

// SaveBars renders a vertical bar chart to a PNG file.
func SaveBars(path, title, yLabel string, bars []Bar) error {
	if len(bars) == 0 {
		return errNoBars
	}

	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	for i, bar := range bars {
		values[i] = bar.Value
		labels[i] = bar.Label
	}

	p := newPlot(title, yLabel)

	barChart, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	barChart.LineStyle.Width = 0
	barChart.Color = plotutil.Color(0)

	p.Add(barChart)
	p.NominalX(labels...)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

// SaveGroupedBars renders two series side by side per label.
func SaveGroupedBars(path, title, yLabel string, labels []string, left, right Series) error {
	if len(labels) == 0 {
		return errNoBars
	}
	if len(left.Values) != len(labels) || len(right.Values) != len(labels) {
		return errors.New("series length does not match labels")
	}

	p := newPlot(title, yLabel)

	width := vg.Points(14)

	leftBars, err := plotter.NewBarChart(plotter.Values(left.Values), width)
	if err != nil {
		return err
	}
	leftBars.LineStyle.Width = 0
	leftBars.Color = plotutil.Color(0)
	leftBars.Offset = -width / 2

	rightBars, err := plotter.NewBarChart(plotter.Values(right.Values), width)
	if err != nil {
		return err
	}
	rightBars.LineStyle.Width = 0
	rightBars.Color = plotutil.Color(1)
	rightBars.Offset = width / 2

	p.Add(leftBars, rightBars)
	p.Legend.Add(left.Name, leftBars)
	p.Legend.Add(right.Name, rightBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

func newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.X.Tick.Label.Rotation = -0.6
	p.X.Tick.Label.XAlign = -0.9
	p.X.Tick.Label.YAlign = -0.4

	return p
}
