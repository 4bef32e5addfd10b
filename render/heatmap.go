package render

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/types"
	"github.com/zeu5/gridmdp/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GridDataSet is a value per cell, NaN for walls.
// Row 0 is drawn at the top.
type GridDataSet struct {
	Values [][]float64
	Cols   int
	Rows   int
}

var _ plotter.GridXYZ = &GridDataSet{}

func newGridDataSet(m *mdp.Map, value func(*mdp.State) float64) *GridDataSet {
	d := &GridDataSet{
		Values: make([][]float64, m.Rows),
		Cols:   m.Cols,
		Rows:   m.Rows,
	}
	for r := 0; r < m.Rows; r++ {
		d.Values[r] = make([]float64, m.Cols)
		for c := 0; c < m.Cols; c++ {
			s, ok := m.At(grid.Coord{Col: c, Row: r})
			if !ok || s.IsWall {
				d.Values[r][c] = math.NaN()
				continue
			}
			d.Values[r][c] = value(s)
		}
	}
	return d
}

// UtilityDataSet holds the current utility of every cell
func UtilityDataSet(m *mdp.Map) *GridDataSet {
	return newGridDataSet(m, func(s *mdp.State) float64 { return s.Utility })
}

// VisitDataSet counts how often the rollouts recorded in the graph occupied
// each cell
func VisitDataSet(m *mdp.Map, graph *types.VisitGraph) *GridDataSet {
	return newGridDataSet(m, func(s *mdp.State) float64 {
		node, ok := graph.Nodes[s.Coords.Hash()]
		if !ok {
			return 0
		}
		return float64(node.Visits)
	})
}

func (g *GridDataSet) Dims() (int, int) {
	return g.Cols, g.Rows
}

func (g *GridDataSet) Z(c, r int) float64 {
	return g.Values[g.Rows-1-r][c]
}

func (g *GridDataSet) X(c int) float64 {
	return float64(c)
}

func (g *GridDataSet) Y(r int) float64 {
	return float64(r)
}

func (g *GridDataSet) Min() float64 {
	min, _ := g.bounds()
	return min
}

func (g *GridDataSet) Max() float64 {
	_, max := g.bounds()
	return max
}

func (g *GridDataSet) bounds() (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, row := range g.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if math.IsInf(min, 1) {
		return 0, 1
	}
	if min == max {
		max = min + 1
	}
	return min, max
}

// HeatMap saves the data set as a png heat map
func HeatMap(data *GridDataSet, title, savePath string) error {
	if err := util.EnsureDir(filepath.Dir(savePath)); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row (from the bottom)"
	p.Add(plotter.NewHeatMap(data, palette.Heat(20, 1)))

	width := vg.Length(data.Cols) * vg.Inch
	height := vg.Length(data.Rows) * vg.Inch
	if err := p.Save(max(width, 4*vg.Inch), max(height, 3*vg.Inch), savePath); err != nil {
		return fmt.Errorf("saving heat map %s: %w", savePath, err)
	}
	return nil
}
