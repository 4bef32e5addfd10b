package mdp

import (
	"fmt"
	"math"

	"github.com/zeu5/gridmdp/grid"
)

// ExpectedUtility is the probability weighted utility of the successors of
// s under a, read from the current utilities.
func (m *Map) ExpectedUtility(s *State, a grid.Action) (float64, error) {
	return m.expectedUtility(s, a, nil)
}

// expectedUtility reads successor utilities from the snapshot when given
func (m *Map) expectedUtility(s *State, a grid.Action, snapshot []float64) (float64, error) {
	outcomes, ok := s.Transitions[a]
	if !ok {
		return 0, fmt.Errorf("state %v action %s: %w", s.Coords, a, ErrUnknownAction)
	}
	eu := 0.0
	for _, o := range outcomes {
		if snapshot != nil {
			eu += o.Probability * snapshot[o.Next]
		} else {
			eu += o.Probability * m.States[o.Next].Utility
		}
	}
	return eu, nil
}

// BestAction picks the action of s with the highest expected utility.
// Ties go to the action whose label sorts last (up, right, left, down).
func (m *Map) BestAction(s *State) (grid.Action, error) {
	a, _, err := m.bestAction(s, nil)
	return a, err
}

func (m *Map) bestAction(s *State, snapshot []float64) (grid.Action, float64, error) {
	if len(s.Actions) == 0 {
		return grid.None, 0, fmt.Errorf("state %v: %w", s.Coords, ErrNoActions)
	}
	best := grid.None
	bestEU := math.Inf(-1)
	for _, a := range s.Actions {
		eu, err := m.expectedUtility(s, a, snapshot)
		if err != nil {
			return grid.None, 0, err
		}
		if best == grid.None || eu > bestEU || (eu == bestEU && a.String() > best.String()) {
			best = a
			bestEU = eu
		}
	}
	return best, bestEU, nil
}

// GreedyPolicy returns the best action of every state by id, None for
// terminal states.
func (m *Map) GreedyPolicy() ([]grid.Action, error) {
	policy := make([]grid.Action, len(m.States))
	for i, s := range m.States {
		if s.Terminal() {
			policy[i] = grid.None
			continue
		}
		a, err := m.BestAction(s)
		if err != nil {
			return nil, err
		}
		policy[i] = a
	}
	return policy, nil
}
