package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ConvergencePlot draws the change of every iteration of each result as a
// png line plot
func ConvergencePlot(title, savePath string, names []string, results []*mdp.Result) error {
	if len(names) != len(results) {
		return fmt.Errorf("%d names for %d results", len(names), len(results))
	}
	if err := util.EnsureDir(filepath.Dir(savePath)); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Max utility change"

	for i, result := range results {
		// nothing ran, leave the series out
		if len(result.Deltas) == 0 {
			continue
		}
		points := make(plotter.XYs, len(result.Deltas))
		for j, d := range result.Deltas {
			points[j] = plotter.XY{
				X: float64(j + 1),
				Y: d,
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("series %s: %w", names[i], err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, savePath)
}

// ConvergenceChart writes the same data as ConvergencePlot as an html page
func ConvergenceChart(savePath string, names []string, results []*mdp.Result) error {
	if len(names) != len(results) {
		return fmt.Errorf("%d names for %d results", len(names), len(results))
	}
	longest := 0
	for _, r := range results {
		longest = max(longest, len(r.Deltas))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Convergence",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, longest)
	for i := range steps {
		steps[i] = strconv.Itoa(i + 1)
	}
	line = line.SetXAxis(steps)
	for i, r := range results {
		items := make([]opts.LineData, 0, len(r.Deltas))
		for _, d := range r.Deltas {
			items = append(items, opts.LineData{Value: d})
		}
		line.AddSeries(names[i], items)
	}

	if err := util.EnsureDir(filepath.Dir(savePath)); err != nil {
		return err
	}
	f, err := os.Create(savePath)
	if err != nil {
		return err
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(f)
}
