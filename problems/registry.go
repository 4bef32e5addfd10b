package problems

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
)

var ErrUnknownProblem = errors.New("unknown problem")

// RussellNorvigSpec is the 4x3 grid of Russell & Norvig
func RussellNorvigSpec() Spec {
	return Spec{
		Name:   "rn",
		Layout: grid.NewLayout(4, 3, grid.Coord{Col: 1, Row: 1}),
		Goals: []Goal{
			{Coords: grid.Coord{Col: 3, Row: 0}, Reward: 1.0},
			{Coords: grid.Coord{Col: 3, Row: 1}, Reward: -1.0},
		},
		LivingReward: -0.04,
		Noise:        RNNoise,
	}
}

func RussellNorvig() (*mdp.Map, error) {
	return Build(RussellNorvigSpec())
}

var mazeWalls = []grid.Coord{
	{Col: 1, Row: 1}, {Col: 4, Row: 1}, {Col: 5, Row: 1}, {Col: 6, Row: 1}, {Col: 7, Row: 1},
	{Col: 1, Row: 2}, {Col: 7, Row: 2},
	{Col: 1, Row: 3}, {Col: 5, Row: 3}, {Col: 7, Row: 3},
	{Col: 1, Row: 4}, {Col: 5, Row: 4}, {Col: 7, Row: 4},
	{Col: 1, Row: 5}, {Col: 5, Row: 5}, {Col: 7, Row: 5},
	{Col: 1, Row: 6}, {Col: 5, Row: 6}, {Col: 7, Row: 6},
	{Col: 1, Row: 7}, {Col: 5, Row: 7}, {Col: 7, Row: 7},
	{Col: 1, Row: 8}, {Col: 3, Row: 8}, {Col: 4, Row: 8}, {Col: 5, Row: 8}, {Col: 7, Row: 8},
	{Col: 1, Row: 9},
}

// MazeSpec is the 10x10 maze with two exits worth +1 and a -1 trap
func MazeSpec() Spec {
	return Spec{
		Name:   "maze",
		Layout: grid.NewLayout(10, 10, mazeWalls...),
		Goals: []Goal{
			{Coords: grid.Coord{Col: 0, Row: 9}, Reward: 1.0},
			{Coords: grid.Coord{Col: 9, Row: 9}, Reward: -1.0},
			{Coords: grid.Coord{Col: 9, Row: 0}, Reward: 1.0},
		},
		LivingReward: -0.04,
		Noise:        MazeNoise,
	}
}

func Maze() (*mdp.Map, error) {
	return Build(MazeSpec())
}

var registry = map[string]func() Spec{
	"rn":   RussellNorvigSpec,
	"maze": MazeSpec,
}

// Names of the registered problems, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the spec of a registered problem
func Lookup(name string) (Spec, error) {
	ctor, ok := registry[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownProblem, name, Names())
	}
	return ctor(), nil
}

// Get builds a registered problem
func Get(name string) (*mdp.Map, error) {
	spec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return Build(spec)
}
