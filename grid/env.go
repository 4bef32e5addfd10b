package grid

import "fmt"

// Coord is a cell on the grid. Row 0 is the top row.
type Coord struct {
	Col int
	Row int
}

func (c Coord) Hash() string {
	return fmt.Sprintf("(%d, %d)", c.Col, c.Row)
}

func (c Coord) String() string {
	return c.Hash()
}

// Successor returns the cell one step away from c in the direction of a.
// No bounds checking is done, see Layout.Filter.
// Panics when a is not one of the four moves.
func Successor(c Coord, a Action) Coord {
	next := Coord{Col: c.Col, Row: c.Row}
	switch a {
	case Up:
		next.Row = c.Row - 1
	case Down:
		next.Row = c.Row + 1
	case Left:
		next.Col = c.Col - 1
	case Right:
		next.Col = c.Col + 1
	default:
		panic(fmt.Sprintf("grid.Successor: not a move: %s", a))
	}
	return next
}

// Layout is the shape of a grid: its dimensions and its wall cells
type Layout struct {
	Cols  int
	Rows  int
	Walls []Coord

	walls map[Coord]bool
}

func NewLayout(cols, rows int, walls ...Coord) *Layout {
	l := &Layout{
		Cols:  cols,
		Rows:  rows,
		Walls: walls,
		walls: make(map[Coord]bool, len(walls)),
	}
	for _, w := range walls {
		l.walls[w] = true
	}
	return l
}

func (l *Layout) InBounds(c Coord) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < l.Cols && c.Row < l.Rows
}

func (l *Layout) IsWall(c Coord) bool {
	if l.walls == nil {
		for _, w := range l.Walls {
			if w == c {
				return true
			}
		}
		return false
	}
	return l.walls[c]
}

// Filter redirects moves that leave the grid or run into a wall back to the
// cell they started from.
func (l *Layout) Filter(from, to Coord) Coord {
	if !l.InBounds(to) || l.IsWall(to) {
		return from
	}
	return to
}

// Index is the dense id of a cell, row major
func (l *Layout) Index(c Coord) int {
	return c.Row*l.Cols + c.Col
}

// Cells lists every coordinate row by row
func (l *Layout) Cells() []Coord {
	cells := make([]Coord, 0, l.Cols*l.Rows)
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			cells = append(cells, Coord{Col: c, Row: r})
		}
	}
	return cells
}
