// Package config loads run files describing the solver settings and the
// problem to solve.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/problems"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaSource string

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Problem ProblemConfig `yaml:"problem"`
}

type SolverConfig struct {
	Gamma     float64 `yaml:"gamma"`
	StopCrit  float64 `yaml:"stop_crit"`
	MaxSweeps int     `yaml:"max_sweeps"`
	MaxRounds int     `yaml:"max_rounds"`
	Seed      uint64  `yaml:"seed"`
	Workers   int     `yaml:"workers"`
}

// ProblemConfig names a registered problem or describes one inline
type ProblemConfig struct {
	Name string      `yaml:"name,omitempty"`
	Grid *GridConfig `yaml:"grid,omitempty"`
}

type GridConfig struct {
	Name         string       `yaml:"name,omitempty"`
	Cols         int          `yaml:"cols"`
	Rows         int          `yaml:"rows"`
	Walls        [][2]int     `yaml:"walls,omitempty"`
	Goals        []GoalConfig `yaml:"goals"`
	LivingReward float64      `yaml:"living_reward"`
	Noise        *NoiseConfig `yaml:"noise,omitempty"`
}

type GoalConfig struct {
	Cell   [2]int  `yaml:"cell"`
	Reward float64 `yaml:"reward"`
}

type NoiseConfig struct {
	Forward  float64 `yaml:"forward"`
	Backward float64 `yaml:"backward"`
	Left     float64 `yaml:"left"`
	Right    float64 `yaml:"right"`
}

// Defaults solves the Russell & Norvig grid with the default solver settings
func Defaults() Config {
	return Config{
		Solver: SolverConfig{
			Gamma:     mdp.DefaultGamma,
			StopCrit:  mdp.DefaultStopCrit,
			MaxSweeps: mdp.DefaultMaxSweeps,
			MaxRounds: mdp.DefaultMaxRounds,
			Seed:      1,
			Workers:   1,
		},
		Problem: ProblemConfig{Name: "rn"},
	}
}

// Load reads a yaml run file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	cfg, err := Parse(b)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates the document against the embedded schema and decodes it
// on top of the defaults
func Parse(b []byte) (Config, error) {
	cfg := Defaults()
	var doc interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if doc == nil {
		return cfg, nil
	}
	if err := validate(doc); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	// an inline grid replaces the default problem name
	if cfg.Problem.Grid != nil {
		cfg.Problem.Name = ""
	}
	return cfg, nil
}

var schema *jsonschema.Schema

func compiledSchema() (*jsonschema.Schema, error) {
	if schema != nil {
		return schema, nil
	}
	s, err := jsonschema.CompileString("schema.json", schemaSource)
	if err != nil {
		return nil, err
	}
	schema = s
	return s, nil
}

// validate runs the schema over the decoded yaml. The document goes through
// json first so the validator sees json types.
func validate(doc interface{}) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	bs, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v interface{}
	if err := json.Unmarshal(bs, &v); err != nil {
		return err
	}
	return s.Validate(v)
}

// Spec returns the problem described by the config
func (c Config) Spec() (problems.Spec, error) {
	if c.Problem.Grid == nil {
		return problems.Lookup(c.Problem.Name)
	}
	g := c.Problem.Grid
	walls := make([]grid.Coord, len(g.Walls))
	for i, w := range g.Walls {
		walls[i] = grid.Coord{Col: w[0], Row: w[1]}
	}
	goals := make([]problems.Goal, len(g.Goals))
	for i, goal := range g.Goals {
		goals[i] = problems.Goal{
			Coords: grid.Coord{Col: goal.Cell[0], Row: goal.Cell[1]},
			Reward: goal.Reward,
		}
	}
	noise := problems.RNNoise
	if g.Noise != nil {
		noise = problems.Noise{
			Forward:  g.Noise.Forward,
			Backward: g.Noise.Backward,
			Left:     g.Noise.Left,
			Right:    g.Noise.Right,
		}
	}
	name := g.Name
	if name == "" {
		name = "custom"
	}
	return problems.Spec{
		Name:         name,
		Layout:       grid.NewLayout(g.Cols, g.Rows, walls...),
		Goals:        goals,
		LivingReward: g.LivingReward,
		Noise:        noise,
	}, nil
}

// Build creates the map of the configured problem with the solver settings
// applied
func (c Config) Build() (*mdp.Map, error) {
	spec, err := c.Spec()
	if err != nil {
		return nil, err
	}
	m, err := problems.Build(spec)
	if err != nil {
		return nil, err
	}
	c.Solver.Apply(m)
	return m, nil
}

// Check applies the ranges of the schema to settings that may have been
// changed after loading, by flags for instance
func (s SolverConfig) Check() error {
	errs := make([]error, 0)
	if math.IsNaN(s.Gamma) || s.Gamma <= 0 || s.Gamma >= 1 {
		errs = append(errs, fmt.Errorf("gamma %g outside (0, 1)", s.Gamma))
	}
	if math.IsNaN(s.StopCrit) || s.StopCrit <= 0 {
		errs = append(errs, fmt.Errorf("stop criterion %g must be positive", s.StopCrit))
	}
	if s.MaxSweeps < 1 {
		errs = append(errs, fmt.Errorf("max sweeps %d must be at least 1", s.MaxSweeps))
	}
	if s.MaxRounds < 1 {
		errs = append(errs, fmt.Errorf("max rounds %d must be at least 1", s.MaxRounds))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", s.Workers))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Apply copies the settings onto the map
func (s SolverConfig) Apply(m *mdp.Map) {
	m.Gamma = s.Gamma
	m.StopCrit = s.StopCrit
	m.MaxSweeps = s.MaxSweeps
	m.MaxRounds = s.MaxRounds
	m.Seed = s.Seed
	m.Workers = s.Workers
}
