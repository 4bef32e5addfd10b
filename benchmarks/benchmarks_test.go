package benchmarks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeu5/gridmdp/config"
	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/problems"
)

func TestParseCell(t *testing.T) {
	c, err := parseCell("3,2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (grid.Coord{Col: 3, Row: 2}) {
		t.Errorf("unexpected cell %v", c)
	}
	if _, err := parseCell("three"); err == nil {
		t.Errorf("bad cell accepted")
	}
}

func TestCompareMaps(t *testing.T) {
	a, _ := problems.RussellNorvig()
	b, _ := problems.RussellNorvig()
	if _, err := a.ValueIteration(); err != nil {
		t.Fatalf("value iteration: %v", err)
	}
	if _, err := b.PolicyIteration(); err != nil {
		t.Fatalf("policy iteration: %v", err)
	}
	report, err := compareMaps(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if report.PolicyDiffs != 0 || report.MaxUtilityDiff > 0.05 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	runs := [][]string{
		{"problems"},
		{"problems", "maze"},
		{"solve", "rn", "--plot", "--save", dir},
		{"solve", "rn", "--algorithm", "policy", "--live", "--save", dir},
		{"compare", "rn", "--save", dir},
		{"rollout", "rn", "--episodes", "20", "--save", dir},
	}
	for _, args := range runs {
		root := GetRootCommand()
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
	for _, f := range []string{"rn_value_utilities.png", "rn_convergence.png", "rn_convergence.html", "0_returns.png", "0_greedy_visits.png"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}

	root := GetRootCommand()
	root.SetArgs([]string{"solve", "nowhere"})
	if err := root.Execute(); err == nil {
		t.Errorf("unknown problem accepted")
	}
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(run, []byte("solver:\n  gamma: 0.5\n  max_sweeps: 3\nproblem:\n  name: maze\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	root := GetRootCommand()
	root.SetArgs([]string{"solve", "--config", run, "--max-sweeps", "500", "--save", dir})
	solve, _, err := root.Find([]string{"solve"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := root.Execute(); err != nil {
		t.Fatalf("solve: %v", err)
	}
	cfg, err := loadConfig(solve, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Solver.Gamma != 0.5 || cfg.Solver.MaxSweeps != 500 || cfg.Problem.Name != "maze" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestFlagsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	runs := [][]string{
		{"solve", "rn", "--gamma=-0.5"},
		{"solve", "rn", "--gamma", "1.5"},
		{"compare", "rn", "--stop", "0"},
		{"rollout", "rn", "--workers", "0"},
	}
	for _, args := range runs {
		root := GetRootCommand()
		root.SetArgs(append(args, "--save", dir))
		err := root.Execute()
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("%v: expected ErrInvalidConfig, got %v", args, err)
		}
	}
}
