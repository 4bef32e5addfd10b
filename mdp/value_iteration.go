package mdp

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// ValueIteration solves the map by repeated synchronous Bellman updates,
// starting from zero utilities, until the largest change of a sweep drops
// below StopCrit. The greedy policy is left to BestAction.
func (m *Map) ValueIteration() (*Result, error) {
	start := time.Now()
	result := newResult(ValueIterationName)
	if err := m.CheckSettings(); err != nil {
		return result, err
	}
	m.resetUtilities()

	for result.Iterations < m.maxSweeps() {
		delta, err := m.Sweep()
		if err != nil {
			return result, err
		}
		result.Iterations += 1
		result.Deltas = append(result.Deltas, delta)
		result.PolicyChanges = append(result.PolicyChanges, 0)
		m.notify(Iteration{
			Algorithm: ValueIterationName,
			Index:     result.Iterations,
			Delta:     delta,
		})
		if delta < m.StopCrit {
			result.Converged = true
			break
		}
	}
	result.Elapsed = time.Since(start)

	if !result.Converged {
		return result, fmt.Errorf("value iteration stopped after %d sweeps with delta %g: %w", result.Iterations, result.LastDelta(), ErrNotConverged)
	}
	return result, nil
}

// Sweep performs a single Bellman update of every non-terminal state from the
// current utilities and commits all new values at once. Returns the largest
// change.
func (m *Map) Sweep() (float64, error) {
	old := m.Utilities()
	next := make([]float64, len(old))
	copy(next, old)

	if err := m.sweepInto(old, next); err != nil {
		return 0, err
	}

	delta := 0.0
	for i, s := range m.States {
		if s.Terminal() {
			continue
		}
		delta = math.Max(delta, math.Abs(next[i]-old[i]))
		s.Utility = next[i]
	}
	return delta, nil
}

// sweepInto writes the updated values into next, reading only old.
// With more than one worker the id range is split between goroutines.
func (m *Map) sweepInto(old, next []float64) error {
	n := len(m.States)
	if m.Workers <= 1 || n < 2 {
		return m.sweepRange(0, n, old, next)
	}

	chunk := (n + m.Workers - 1) / m.Workers
	var g errgroup.Group
	for from := 0; from < n; from += chunk {
		from, to := from, min(from+chunk, n)
		g.Go(func() error {
			return m.sweepRange(from, to, old, next)
		})
	}
	return g.Wait()
}

func (m *Map) sweepRange(from, to int, old, next []float64) error {
	for i := from; i < to; i++ {
		s := m.States[i]
		if s.Terminal() {
			continue
		}
		_, best, err := m.bestAction(s, old)
		if err != nil {
			return err
		}
		next[i] = s.Reward + m.Gamma*best
	}
	return nil
}
