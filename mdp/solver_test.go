package mdp_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/problems"
)

func buildRN(t *testing.T) *mdp.Map {
	t.Helper()
	m, err := problems.RussellNorvig()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func buildMaze(t *testing.T) *mdp.Map {
	t.Helper()
	m, err := problems.Maze()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func utilityAt(t *testing.T, m *mdp.Map, col, row int) float64 {
	t.Helper()
	s, ok := m.At(grid.Coord{Col: col, Row: row})
	if !ok {
		t.Fatalf("no state at (%d, %d)", col, row)
	}
	return s.Utility
}

func TestValueIterationRussellNorvig(t *testing.T) {
	m := buildRN(t)
	result, err := m.ValueIteration()
	if err != nil {
		t.Fatalf("value iteration: %v", err)
	}
	if !result.Converged || result.LastDelta() >= m.StopCrit {
		t.Errorf("expected convergence, got %+v", result)
	}
	if u := utilityAt(t, m, 3, 0); u != 1.0 {
		t.Errorf("utility of +1 goal changed to %g", u)
	}
	if u := utilityAt(t, m, 3, 1); u != -1.0 {
		t.Errorf("utility of -1 goal changed to %g", u)
	}
	if u := utilityAt(t, m, 1, 1); u != 0.0 {
		t.Errorf("utility of wall changed to %g", u)
	}
	if u := utilityAt(t, m, 0, 0); u < 0.2 || u > 0.35 {
		t.Errorf("utility of (0, 0) = %g, expected within [0.2, 0.35]", u)
	}

	next, _ := m.At(grid.Coord{Col: 2, Row: 0})
	a, err := m.BestAction(next)
	if err != nil {
		t.Fatalf("best action: %v", err)
	}
	if a != grid.Right {
		t.Errorf("best action next to the +1 goal is %s, expected right", a)
	}

	// below the +1 goal, up reaches (2, 1) and only risks the -1 goal sideways
	below, _ := m.At(grid.Coord{Col: 2, Row: 2})
	a, err = m.BestAction(below)
	if err != nil {
		t.Fatalf("best action: %v", err)
	}
	if a != grid.Up {
		t.Errorf("best action at (2, 2) is %s, expected up", a)
	}
}

func TestSolversRejectSettings(t *testing.T) {
	cases := []struct {
		name     string
		gamma    float64
		stopCrit float64
	}{
		{"negative gamma", -0.5, 0.01},
		{"zero gamma", 0, 0.01},
		{"gamma one", 1, 0.01},
		{"gamma above one", 1.5, 0.01},
		{"gamma nan", math.NaN(), 0.01},
		{"zero stop", 0.8, 0},
		{"negative stop", 0.8, -1},
	}
	for _, tt := range cases {
		m := buildRN(t)
		m.Gamma = tt.gamma
		m.StopCrit = tt.stopCrit
		result, err := m.ValueIteration()
		if !errors.Is(err, mdp.ErrInvalidSettings) {
			t.Errorf("%s: value iteration returned %v", tt.name, err)
		}
		if result.Iterations != 0 || result.Converged {
			t.Errorf("%s: value iteration ran %d sweeps", tt.name, result.Iterations)
		}
		result, err = m.PolicyIteration()
		if !errors.Is(err, mdp.ErrInvalidSettings) {
			t.Errorf("%s: policy iteration returned %v", tt.name, err)
		}
		if result.Iterations != 0 || result.Converged {
			t.Errorf("%s: policy iteration ran %d rounds", tt.name, result.Iterations)
		}
	}
}

func TestPolicyIterationMatchesValueIterationPolicy(t *testing.T) {
	vi := buildRN(t)
	if _, err := vi.ValueIteration(); err != nil {
		t.Fatalf("value iteration: %v", err)
	}
	pi := buildRN(t)
	result, err := pi.PolicyIteration()
	if err != nil {
		t.Fatalf("policy iteration: %v", err)
	}
	if !result.Converged {
		t.Fatalf("policy iteration did not converge")
	}

	viPolicy, err := vi.GreedyPolicy()
	if err != nil {
		t.Fatalf("greedy policy: %v", err)
	}
	for i, s := range pi.States {
		if s.Terminal() {
			if s.Policy != grid.None {
				t.Errorf("terminal state %v has policy %s", s.Coords, s.Policy)
			}
			continue
		}
		if s.Policy != viPolicy[i] {
			t.Errorf("state %v: policy iteration picks %s, value iteration %s", s.Coords, s.Policy, viPolicy[i])
		}
	}
}

func TestAlgorithmsAgreeOnUtilities(t *testing.T) {
	builders := map[string]func(*testing.T) *mdp.Map{
		"rn":   buildRN,
		"maze": buildMaze,
	}
	for name, build := range builders {
		vi := build(t)
		vi.StopCrit = 1e-9
		if _, err := vi.ValueIteration(); err != nil {
			t.Fatalf("%s value iteration: %v", name, err)
		}
		pi := build(t)
		if _, err := pi.PolicyIteration(); err != nil {
			t.Fatalf("%s policy iteration: %v", name, err)
		}
		for i := range vi.States {
			if d := math.Abs(vi.States[i].Utility - pi.States[i].Utility); d > 1e-3 {
				t.Errorf("%s: state %v differs by %g", name, vi.States[i].Coords, d)
			}
		}
		viPolicy, _ := vi.GreedyPolicy()
		piPolicy, _ := pi.GreedyPolicy()
		for i := range viPolicy {
			if viPolicy[i] != piPolicy[i] {
				t.Errorf("%s: state %v policies differ (%s, %s)", name, vi.States[i].Coords, viPolicy[i], piPolicy[i])
			}
		}
	}
}

func TestDeltasEventuallyDecrease(t *testing.T) {
	m := buildMaze(t)
	m.StopCrit = 1e-8
	result, err := m.ValueIteration()
	if err != nil {
		t.Fatalf("value iteration: %v", err)
	}
	deltas := result.Deltas
	if len(deltas) < 10 {
		t.Fatalf("expected more sweeps, got %d", len(deltas))
	}
	// contraction: the tail of the sequence is non-increasing
	for i := len(deltas) / 2; i < len(deltas); i++ {
		if deltas[i] > deltas[i-1]+1e-12 {
			t.Errorf("delta increased at sweep %d: %g > %g", i+1, deltas[i], deltas[i-1])
		}
	}
}

func TestTerminalUtilitiesFixed(t *testing.T) {
	m := buildMaze(t)
	fixed := make(map[int]float64)
	for _, s := range m.States {
		if s.Terminal() {
			fixed[s.ID] = s.Utility
		}
	}
	if _, err := m.ValueIteration(); err != nil {
		t.Fatalf("value iteration: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := m.Sweep(); err != nil {
			t.Fatalf("sweep: %v", err)
		}
	}
	if _, err := m.PolicyIteration(); err != nil {
		t.Fatalf("policy iteration: %v", err)
	}
	for id, u := range fixed {
		if m.States[id].Utility != u {
			t.Errorf("terminal state %v changed from %g to %g", m.States[id].Coords, u, m.States[id].Utility)
		}
	}
}

func TestSweepAfterConvergenceIsIdempotent(t *testing.T) {
	m := buildRN(t)
	if _, err := m.ValueIteration(); err != nil {
		t.Fatalf("value iteration: %v", err)
	}
	before := m.Utilities()
	delta, err := m.Sweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if delta >= m.StopCrit {
		t.Errorf("extra sweep changed values by %g", delta)
	}
	for i, u := range m.Utilities() {
		if math.Abs(u-before[i]) >= m.StopCrit {
			t.Errorf("state %v moved by %g", m.States[i].Coords, u-before[i])
		}
	}
}

func TestParallelSweepMatchesSerial(t *testing.T) {
	serial := buildMaze(t)
	if _, err := serial.ValueIteration(); err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel := buildMaze(t)
	parallel.Workers = 7
	result, err := parallel.ValueIteration()
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	serialUtilities := serial.Utilities()
	for i, u := range parallel.Utilities() {
		if u != serialUtilities[i] {
			t.Errorf("state %v: parallel %g, serial %g", parallel.States[i].Coords, u, serialUtilities[i])
		}
	}
	if result.Iterations == 0 {
		t.Errorf("no sweeps recorded")
	}
}

func TestNonConvergenceIsReported(t *testing.T) {
	m := buildMaze(t)
	m.MaxSweeps = 2
	result, err := m.ValueIteration()
	if !errors.Is(err, mdp.ErrNotConverged) {
		t.Fatalf("expected ErrNotConverged, got %v", err)
	}
	if result.Converged || result.Iterations != 2 {
		t.Errorf("unexpected result %+v", result)
	}

	m = buildMaze(t)
	m.MaxRounds = 1
	result, err = m.PolicyIteration()
	if !errors.Is(err, mdp.ErrNotConverged) {
		t.Fatalf("expected ErrNotConverged, got %v", err)
	}
	if result.Converged {
		t.Errorf("policy iteration reported convergence after one round")
	}
}

func TestOnIteration(t *testing.T) {
	m := buildRN(t)
	seen := make([]mdp.Iteration, 0)
	m.OnIteration = func(it mdp.Iteration) {
		seen = append(seen, it)
	}
	result, err := m.PolicyIteration()
	if err != nil {
		t.Fatalf("policy iteration: %v", err)
	}
	if len(seen) != result.Iterations {
		t.Fatalf("expected %d notifications, got %d", result.Iterations, len(seen))
	}
	last := seen[len(seen)-1]
	if last.Algorithm != mdp.PolicyIterationName || last.Changed != 0 || last.Index != result.Iterations {
		t.Errorf("unexpected last iteration %+v", last)
	}
}

func TestRandomPolicyIsSeeded(t *testing.T) {
	a := buildMaze(t)
	b := buildMaze(t)
	if err := a.RandomizePolicy(); err != nil {
		t.Fatalf("randomize: %v", err)
	}
	if err := b.RandomizePolicy(); err != nil {
		t.Fatalf("randomize: %v", err)
	}
	distinct := make(map[grid.Action]bool)
	for i := range a.States {
		if a.States[i].Policy != b.States[i].Policy {
			t.Errorf("state %v: same seed gave %s and %s", a.States[i].Coords, a.States[i].Policy, b.States[i].Policy)
		}
		if a.States[i].Terminal() {
			if a.States[i].Policy != grid.None {
				t.Errorf("terminal state %v got a policy", a.States[i].Coords)
			}
			continue
		}
		distinct[a.States[i].Policy] = true
	}
	if len(distinct) < 2 {
		t.Errorf("random policy uses a single action")
	}
}
