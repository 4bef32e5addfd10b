package mdp

import (
	"fmt"

	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// cell exposes a map state to the rollout framework
type cell struct {
	s *State
}

var _ types.State = cell{}

func (c cell) Hash() string {
	return c.s.Coords.Hash()
}

// Actions are empty for terminal states so rollouts end there
func (c cell) Actions() []types.Action {
	if c.s.Terminal() {
		return []types.Action{}
	}
	actions := make([]types.Action, len(c.s.Actions))
	for i, a := range c.s.Actions {
		actions[i] = a
	}
	return actions
}

func (c cell) Reward() float64 {
	return c.s.Reward
}

// Environment samples the transition model of a map
type Environment struct {
	m     *Map
	start *State
	cur   *State
	src   rand.Source
}

var _ types.Environment = &Environment{}

func NewEnvironment(m *Map, start grid.Coord, seed uint64) (*Environment, error) {
	s, ok := m.At(start)
	if !ok {
		return nil, fmt.Errorf("no state at %v", start)
	}
	if s.IsWall {
		return nil, fmt.Errorf("start %v is a wall", start)
	}
	return &Environment{
		m:     m,
		start: s,
		cur:   s,
		src:   rand.NewSource(seed),
	}, nil
}

func (e *Environment) Reset() (types.State, error) {
	e.cur = e.start
	return cell{e.cur}, nil
}

func (e *Environment) Step(a types.Action) (types.State, error) {
	action, ok := a.(grid.Action)
	if !ok {
		return nil, fmt.Errorf("unexpected action type %T", a)
	}
	outcomes, ok := e.cur.Transitions[action]
	if !ok {
		return nil, fmt.Errorf("state %v action %s: %w", e.cur.Coords, action, ErrUnknownAction)
	}
	weights := make([]float64, len(outcomes))
	for i, o := range outcomes {
		weights[i] = o.Probability
	}
	sampler := sampleuv.NewWeighted(weights, e.src)
	i, ok := sampler.Take()
	if !ok {
		return nil, fmt.Errorf("state %v action %s: empty outcome list", e.cur.Coords, action)
	}
	e.cur = e.m.States[outcomes[i].Next]
	return cell{e.cur}, nil
}

// GreedyPolicy plays the best action under the current utilities of the map
type GreedyPolicy struct {
	m *Map
}

var _ types.Policy = &GreedyPolicy{}

func NewGreedyPolicy(m *Map) *GreedyPolicy {
	return &GreedyPolicy{m: m}
}

func (g *GreedyPolicy) NextAction(_ int, s types.State, _ []types.Action) (types.Action, bool) {
	c, ok := s.(cell)
	if !ok {
		return nil, false
	}
	a, err := g.m.BestAction(c.s)
	if err != nil {
		return nil, false
	}
	return a, true
}

func (g *GreedyPolicy) Reset() {}
