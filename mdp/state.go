package mdp

import (
	"github.com/zeu5/gridmdp/grid"
)

// Outcome is one possible result of taking an action: the successor is
// referenced by its id in the owning Map.
type Outcome struct {
	Probability float64
	Next        int
}

// State holds the MDP data of a single grid cell
type State struct {
	// dense index into Map.States, also the row/column in policy evaluation
	ID     int
	Coords grid.Coord

	Reward  float64
	Utility float64

	Actions []grid.Action
	// each action maps to a list of probability/successor pairs
	Transitions map[grid.Action][]Outcome
	// current choice of policy iteration, None for terminal states
	Policy grid.Action

	// terminal states keep a fixed utility
	IsGoal bool
	IsWall bool
}

func NewState(id int, coords grid.Coord) *State {
	return &State{
		ID:          id,
		Coords:      coords,
		Actions:     make([]grid.Action, 0),
		Transitions: make(map[grid.Action][]Outcome),
		Policy:      grid.None,
	}
}

// SetTransition attaches the outcome list of an action, registering the
// action if it is new to the state.
func (s *State) SetTransition(a grid.Action, outcomes []Outcome) {
	if _, ok := s.Transitions[a]; !ok {
		s.Actions = append(s.Actions, a)
	}
	s.Transitions[a] = outcomes
}

// Terminal reports whether the solver leaves the state untouched
func (s *State) Terminal() bool {
	return s.IsGoal || s.IsWall
}
