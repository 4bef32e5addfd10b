package mdp

import (
	"fmt"
	"time"

	"github.com/zeu5/gridmdp/grid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// PolicyIteration alternates exact policy evaluation with greedy improvement,
// starting from a seeded random policy, until no state changes its action.
func (m *Map) PolicyIteration() (*Result, error) {
	start := time.Now()
	result := newResult(PolicyIterationName)
	if err := m.CheckSettings(); err != nil {
		return result, err
	}
	m.resetUtilities()
	if err := m.RandomizePolicy(); err != nil {
		return result, err
	}

	for result.Iterations < m.maxRounds() {
		before := m.Utilities()
		if err := m.CalculateUtilitiesLinear(); err != nil {
			return result, err
		}
		delta := maxChange(before, m.Utilities())

		changed, err := m.ImprovePolicy()
		if err != nil {
			return result, err
		}
		result.Iterations += 1
		result.Deltas = append(result.Deltas, delta)
		result.PolicyChanges = append(result.PolicyChanges, changed)
		m.notify(Iteration{
			Algorithm: PolicyIterationName,
			Index:     result.Iterations,
			Delta:     delta,
			Changed:   changed,
		})
		if changed == 0 {
			result.Converged = true
			break
		}
	}
	result.Elapsed = time.Since(start)

	if !result.Converged {
		return result, fmt.Errorf("policy iteration stopped after %d rounds with %d changes: %w", result.Iterations, result.PolicyChanges[len(result.PolicyChanges)-1], ErrNotConverged)
	}
	return result, nil
}

// RandomizePolicy gives every non-terminal state an action drawn uniformly
// from its actions. The draw only depends on Seed.
func (m *Map) RandomizePolicy() error {
	src := rand.NewSource(m.Seed)
	for _, s := range m.States {
		if s.Terminal() {
			s.Policy = grid.None
			continue
		}
		if len(s.Actions) == 0 {
			return fmt.Errorf("state %v: %w", s.Coords, ErrNoActions)
		}
		weights := make([]float64, len(s.Actions))
		for i := range weights {
			weights[i] = 1.0
		}
		sampler := sampleuv.NewWeighted(weights, src)
		i, ok := sampler.Take()
		if !ok {
			return fmt.Errorf("state %v: %w", s.Coords, ErrNoActions)
		}
		s.Policy = s.Actions[i]
	}
	return nil
}

// ImprovePolicy replaces every policy action by the greedy one under the
// current utilities and returns how many states changed.
func (m *Map) ImprovePolicy() (int, error) {
	updates := make(map[int]grid.Action)
	for _, s := range m.States {
		if s.Terminal() {
			continue
		}
		a, err := m.BestAction(s)
		if err != nil {
			return 0, err
		}
		if a != s.Policy {
			updates[s.ID] = a
		}
	}
	for id, a := range updates {
		m.States[id].Policy = a
	}
	return len(updates), nil
}

func maxChange(before, after []float64) float64 {
	delta := 0.0
	for i := range before {
		d := after[i] - before[i]
		if d < 0 {
			d = -d
		}
		if d > delta {
			delta = d
		}
	}
	return delta
}
