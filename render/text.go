// Package render draws solved maps as text, images and charts.
package render

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/types"
)

type PrintType int

const (
	PrintValues PrintType = iota
	PrintActions
)

const cellWidth = 8

type Options struct {
	// Color highlights goals and actions with terminal escape codes
	Color bool
}

// Maze draws the grid one row of cells at a time, each cell 8 characters
// wide. Walls are blank, goals show their integer value and the remaining
// cells show the utility or the best action depending on pt.
func Maze(m *mdp.Map, pt PrintType, opts Options) (string, error) {
	au := aurora.NewAurora(opts.Color)
	return drawGrid(m, func(s *mdp.State) (string, error) {
		return renderCell(m, s, pt, au)
	})
}

// ObservedActions draws the action taken most often in each cell by the
// rollouts recorded in the graph. Cells never left stay blank.
func ObservedActions(m *mdp.Map, graph *types.VisitGraph, opts Options) (string, error) {
	au := aurora.NewAurora(opts.Color)
	return drawGrid(m, func(s *mdp.State) (string, error) {
		if s.Terminal() {
			return renderCell(m, s, PrintValues, au)
		}
		glyph := "  "
		if n, ok := graph.Nodes[s.Coords.Hash()]; ok {
			if label, ok := n.MostTaken(); ok {
				a, err := grid.ParseAction(label)
				if err != nil {
					return "", err
				}
				glyph = a.Glyph()
			}
		}
		return " " + "  " + au.Cyan(glyph).String() + "  " + " ", nil
	})
}

func drawGrid(m *mdp.Map, cell func(*mdp.State) (string, error)) (string, error) {
	separator := ":" + strings.Repeat(strings.Repeat("-", cellWidth)+":", m.Cols) + "\n"

	var b strings.Builder
	b.WriteString(separator)
	for r := 0; r < m.Rows; r++ {
		b.WriteString("|")
		for c := 0; c < m.Cols; c++ {
			s, ok := m.At(grid.Coord{Col: c, Row: r})
			if !ok {
				return "", fmt.Errorf("no state at (%d, %d)", c, r)
			}
			text, err := cell(s)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
			b.WriteString("|")
		}
		b.WriteString("\n")
		b.WriteString(separator)
	}
	return b.String(), nil
}

func renderCell(m *mdp.Map, s *mdp.State, pt PrintType, au aurora.Aurora) (string, error) {
	if s.IsWall {
		return strings.Repeat(" ", cellWidth), nil
	}
	if s.IsGoal {
		text := fmt.Sprintf("  % d  ", int(s.Utility))
		if s.Utility > 0 {
			return " " + au.Green(text).String() + " ", nil
		}
		return " " + au.Red(text).String() + " ", nil
	}
	switch pt {
	case PrintValues:
		return " " + fmt.Sprintf("% .3f", s.Utility) + " ", nil
	case PrintActions:
		a, err := m.BestAction(s)
		if err != nil {
			return "", err
		}
		return " " + "  " + au.Cyan(a.Glyph()).String() + "  " + " ", nil
	}
	return "", fmt.Errorf("unknown print type %d", pt)
}

// Values draws the utilities without colour
func Values(m *mdp.Map) (string, error) {
	return Maze(m, PrintValues, Options{})
}

// Actions draws the greedy policy without colour
func Actions(m *mdp.Map) (string, error) {
	return Maze(m, PrintActions, Options{})
}
