package mdp

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeu5/gridmdp/grid"
)

const (
	DefaultGamma     = 0.8
	DefaultStopCrit  = 0.01
	DefaultMaxSweeps = 10000
	DefaultMaxRounds = 1000

	// tolerance on the sum of an outcome list
	probabilityTolerance = 1e-9
)

// Map is the collection of grid states together with the solver settings
type Map struct {
	States []*State
	Cols   int
	Rows   int

	// discount factor
	Gamma float64
	// largest utility change at which value iteration stops
	StopCrit float64
	// iteration caps, a solve that reaches them reports ErrNotConverged
	MaxSweeps int
	MaxRounds int
	// seed of the initial random policy of policy iteration
	Seed uint64
	// number of goroutines sharing a value iteration sweep
	Workers int

	// called after every sweep or improvement round when set
	OnIteration func(Iteration)

	index map[grid.Coord]int
}

func NewMap(cols, rows int) *Map {
	return &Map{
		States:    make([]*State, 0, cols*rows),
		Cols:      cols,
		Rows:      rows,
		Gamma:     DefaultGamma,
		StopCrit:  DefaultStopCrit,
		MaxSweeps: DefaultMaxSweeps,
		MaxRounds: DefaultMaxRounds,
		Seed:      1,
		Workers:   1,
		index:     make(map[grid.Coord]int),
	}
}

// Add registers s at position s.ID, growing the state slice as needed.
func (m *Map) Add(s *State) {
	for len(m.States) <= s.ID {
		m.States = append(m.States, nil)
	}
	m.States[s.ID] = s
	if m.index == nil {
		m.index = make(map[grid.Coord]int)
	}
	m.index[s.Coords] = s.ID
}

// At returns the state at the given cell
func (m *Map) At(c grid.Coord) (*State, bool) {
	id, ok := m.index[c]
	if !ok {
		return nil, false
	}
	return m.States[id], true
}

// State returns the state with the given id
func (m *Map) State(id int) (*State, bool) {
	if id < 0 || id >= len(m.States) || m.States[id] == nil {
		return nil, false
	}
	return m.States[id], true
}

func (m *Map) Len() int {
	return len(m.States)
}

// Validate checks the structure the solvers rely on.
// Every violation is reported.
func (m *Map) Validate() error {
	errs := make([]error, 0)
	for i, s := range m.States {
		if s == nil {
			errs = append(errs, fmt.Errorf("no state with id %d", i))
			continue
		}
		if s.ID != i {
			errs = append(errs, fmt.Errorf("state %v stored at %d has id %d", s.Coords, i, s.ID))
		}
		if s.Terminal() {
			continue
		}
		if len(s.Actions) == 0 {
			errs = append(errs, fmt.Errorf("state %v: %w", s.Coords, ErrNoActions))
		}
		for _, a := range s.Actions {
			outcomes, ok := s.Transitions[a]
			if !ok {
				errs = append(errs, fmt.Errorf("state %v action %s: %w", s.Coords, a, ErrUnknownAction))
				continue
			}
			sum := 0.0
			for _, o := range outcomes {
				sum += o.Probability
				if o.Probability < 0 {
					errs = append(errs, fmt.Errorf("state %v action %s: negative probability %g", s.Coords, a, o.Probability))
				}
				if o.Next < 0 || o.Next >= len(m.States) || m.States[o.Next] == nil {
					errs = append(errs, fmt.Errorf("state %v action %s: successor %d out of range", s.Coords, a, o.Next))
					continue
				}
				if m.States[o.Next].IsWall {
					errs = append(errs, fmt.Errorf("state %v action %s: successor %v is a wall", s.Coords, a, m.States[o.Next].Coords))
				}
			}
			if math.Abs(sum-1.0) > probabilityTolerance {
				errs = append(errs, fmt.Errorf("state %v action %s: probabilities sum to %g", s.Coords, a, sum))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidMap, errors.Join(errs...))
}

// CheckSettings requires 0 < Gamma < 1 and StopCrit > 0
func (m *Map) CheckSettings() error {
	if math.IsNaN(m.Gamma) || m.Gamma <= 0 || m.Gamma >= 1 {
		return fmt.Errorf("%w: gamma %g outside (0, 1)", ErrInvalidSettings, m.Gamma)
	}
	if math.IsNaN(m.StopCrit) || m.StopCrit <= 0 {
		return fmt.Errorf("%w: stop criterion %g must be positive", ErrInvalidSettings, m.StopCrit)
	}
	return nil
}

// Utilities returns a copy of the current utility of every state, by id
func (m *Map) Utilities() []float64 {
	u := make([]float64, len(m.States))
	for i, s := range m.States {
		u[i] = s.Utility
	}
	return u
}

// resetUtilities sets every non-terminal utility back to 0
func (m *Map) resetUtilities() {
	for _, s := range m.States {
		if !s.Terminal() {
			s.Utility = 0
		}
	}
}

func (m *Map) notify(it Iteration) {
	if m.OnIteration != nil {
		m.OnIteration(it)
	}
}

func (m *Map) maxSweeps() int {
	if m.MaxSweeps <= 0 {
		return DefaultMaxSweeps
	}
	return m.MaxSweeps
}

func (m *Map) maxRounds() int {
	if m.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return m.MaxRounds
}
