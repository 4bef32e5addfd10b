// Package problems builds the grid MDPs the solvers are run on.
package problems

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
)

// Noise is the distribution of the direction actually moved relative to the
// intended one
type Noise struct {
	Forward  float64 `json:"forward"`
	Backward float64 `json:"backward"`
	Left     float64 `json:"left"`
	Right    float64 `json:"right"`
}

var (
	// RNNoise moves as intended 80% of the time and sideways otherwise
	RNNoise = Noise{Forward: 0.8, Left: 0.1, Right: 0.1}
	// MazeNoise can also slip backwards
	MazeNoise = Noise{Forward: 0.7, Backward: 0.1, Left: 0.1, Right: 0.1}
)

func (n Noise) Sum() float64 {
	return n.Forward + n.Backward + n.Left + n.Right
}

// outcomes in the order forward, backward, left, right, skipping zero weights
func (n Noise) directions(a grid.Action) ([]float64, []grid.Action) {
	all := []struct {
		p float64
		a grid.Action
	}{
		{n.Forward, a},
		{n.Backward, grid.Opposite(a)},
		{n.Left, grid.RotateLeft(a)},
		{n.Right, grid.RotateRight(a)},
	}
	probs := make([]float64, 0, len(all))
	dirs := make([]grid.Action, 0, len(all))
	for _, d := range all {
		if d.p == 0 {
			continue
		}
		probs = append(probs, d.p)
		dirs = append(dirs, d.a)
	}
	return probs, dirs
}

// Goal is a terminal cell with a fixed value
type Goal struct {
	Coords grid.Coord
	Reward float64
}

// Spec describes a grid problem
type Spec struct {
	Name         string
	Layout       *grid.Layout
	Goals        []Goal
	LivingReward float64
	Noise        Noise
	// defaults to grid.AllActions
	Actions []grid.Action
}

var ErrInvalidSpec = errors.New("invalid problem")

func (s Spec) check() error {
	if s.Layout == nil || s.Layout.Cols <= 0 || s.Layout.Rows <= 0 {
		return fmt.Errorf("%w %s: empty layout", ErrInvalidSpec, s.Name)
	}
	if math.Abs(s.Noise.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("%w %s: noise sums to %g", ErrInvalidSpec, s.Name, s.Noise.Sum())
	}
	for _, w := range s.Layout.Walls {
		if !s.Layout.InBounds(w) {
			return fmt.Errorf("%w %s: wall %v outside the grid", ErrInvalidSpec, s.Name, w)
		}
	}
	for _, g := range s.Goals {
		if !s.Layout.InBounds(g.Coords) {
			return fmt.Errorf("%w %s: goal %v outside the grid", ErrInvalidSpec, s.Name, g.Coords)
		}
		if s.Layout.IsWall(g.Coords) {
			return fmt.Errorf("%w %s: goal %v is a wall", ErrInvalidSpec, s.Name, g.Coords)
		}
	}
	return nil
}

// Build creates one state per cell, ids row major. Walls and goals are
// terminal; walls carry no reward or utility. Moves off the grid or into a
// wall stay in place.
func Build(spec Spec) (*mdp.Map, error) {
	if err := spec.check(); err != nil {
		return nil, err
	}
	layout := spec.Layout
	actions := spec.Actions
	if len(actions) == 0 {
		actions = grid.AllActions
	}

	m := mdp.NewMap(layout.Cols, layout.Rows)
	for _, c := range layout.Cells() {
		s := mdp.NewState(layout.Index(c), c)
		s.Reward = spec.LivingReward
		m.Add(s)
	}

	for _, g := range spec.Goals {
		s, _ := m.At(g.Coords)
		s.IsGoal = true
		s.Reward = g.Reward
		s.Utility = g.Reward
	}

	for _, w := range layout.Walls {
		s, _ := m.At(w)
		s.IsGoal = true
		s.IsWall = true
		s.Reward = 0.0
		s.Utility = 0.0
	}

	for _, s := range m.States {
		for _, a := range actions {
			probs, dirs := spec.Noise.directions(a)
			outcomes := make([]mdp.Outcome, len(probs))
			for i := range probs {
				to := layout.Filter(s.Coords, grid.Successor(s.Coords, dirs[i]))
				outcomes[i] = mdp.Outcome{Probability: probs[i], Next: layout.Index(to)}
			}
			s.SetTransition(a, outcomes)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("problem %s: %w", spec.Name, err)
	}
	return m, nil
}
