package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/problems"
)

const customRun = `
solver:
  gamma: 0.9
  stop_crit: 0.001
  workers: 2
problem:
  grid:
    name: corridor
    cols: 3
    rows: 2
    walls: [[1, 1]]
    goals:
      - cell: [2, 0]
        reward: 1
    living_reward: -0.1
    noise:
      forward: 0.9
      backward: 0.1
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("empty path should give the defaults, got %+v", cfg)
	}
	m, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.Len() != 12 || m.Gamma != 0.8 {
		t.Errorf("expected the rn grid, got %d states gamma %g", m.Len(), m.Gamma)
	}
}

func TestLoadCustomGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(customRun), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Solver.Gamma != 0.9 || cfg.Solver.StopCrit != 0.001 || cfg.Solver.Workers != 2 {
		t.Errorf("solver settings not read: %+v", cfg.Solver)
	}
	if cfg.Solver.MaxSweeps != Defaults().Solver.MaxSweeps {
		t.Errorf("unset values should keep their defaults")
	}
	if cfg.Problem.Name != "" {
		t.Errorf("inline grid should clear the problem name")
	}

	m, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.Len() != 6 || m.Gamma != 0.9 || m.Workers != 2 {
		t.Errorf("unexpected map %d states gamma %g", m.Len(), m.Gamma)
	}
	wall, _ := m.At(grid.Coord{Col: 1, Row: 1})
	goal, _ := m.At(grid.Coord{Col: 2, Row: 0})
	if !wall.IsWall || !goal.IsGoal || goal.Utility != 1 {
		t.Errorf("layout not applied")
	}
	if _, err := m.ValueIteration(); err != nil {
		t.Errorf("value iteration: %v", err)
	}
}

func TestSchemaRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "solver:\n  speed: 3\n",
		"gamma range":    "solver:\n  gamma: 1.5\n",
		"name and grid":  "problem:\n  name: rn\n  grid:\n    cols: 1\n    rows: 1\n    goals: [{cell: [0, 0], reward: 1}]\n",
		"short cell":     "problem:\n  grid:\n    cols: 2\n    rows: 1\n    goals: [{cell: [0], reward: 1}]\n",
		"not yaml":       "solver: [",
		"workers string": "solver:\n  workers: many\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestUnknownProblem(t *testing.T) {
	cfg, err := Parse([]byte("problem:\n  name: nowhere\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Build(); !errors.Is(err, problems.ErrUnknownProblem) {
		t.Errorf("expected ErrUnknownProblem, got %v", err)
	}
}

func TestBadNoiseFailsBuild(t *testing.T) {
	doc := "problem:\n  grid:\n    cols: 2\n    rows: 1\n    goals: [{cell: [1, 0], reward: 1}]\n    noise: {forward: 0.5}\n"
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Build(); !errors.Is(err, problems.ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestSolverCheck(t *testing.T) {
	if err := Defaults().Solver.Check(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	cases := map[string]func(*SolverConfig){
		"negative gamma": func(s *SolverConfig) { s.Gamma = -0.5 },
		"gamma one":      func(s *SolverConfig) { s.Gamma = 1 },
		"gamma above":    func(s *SolverConfig) { s.Gamma = 1.5 },
		"zero stop":      func(s *SolverConfig) { s.StopCrit = 0 },
		"zero sweeps":    func(s *SolverConfig) { s.MaxSweeps = 0 },
		"zero rounds":    func(s *SolverConfig) { s.MaxRounds = 0 },
		"zero workers":   func(s *SolverConfig) { s.Workers = 0 },
	}
	for name, change := range cases {
		s := Defaults().Solver
		change(&s)
		if err := s.Check(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}
