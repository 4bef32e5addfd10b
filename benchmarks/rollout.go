package benchmarks

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridmdp/config"
	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/render"
	"github.com/zeu5/gridmdp/types"
	"github.com/zeu5/gridmdp/util"
)

// chainComparators calls every comparator in order
func chainComparators(comparators ...types.Comparator) types.Comparator {
	return func(run int, names []string, ds []types.DataSet) error {
		for _, c := range comparators {
			if err := c(run, names, ds); err != nil {
				return err
			}
		}
		return nil
	}
}

// visitHeatMaps draws a heat map of the cells occupied by the rollouts of
// every experiment
func visitHeatMaps(m *mdp.Map, plotPath string) types.Comparator {
	return func(run int, names []string, ds []types.DataSet) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		for i, name := range names {
			graph, ok := ds[i].(*types.VisitGraph)
			if !ok {
				continue
			}
			p := path.Join(plotPath, strconv.Itoa(run)+"_"+name+"_visits.png")
			if err := render.HeatMap(render.VisitDataSet(m, graph), name+" visits", p); err != nil {
				return err
			}
		}
		return nil
	}
}

// printObservedActions prints the action each experiment took most often in
// every cell
func printObservedActions(m *mdp.Map) types.Comparator {
	return func(run int, names []string, ds []types.DataSet) error {
		for i, name := range names {
			graph, ok := ds[i].(*types.VisitGraph)
			if !ok {
				continue
			}
			text, err := render.ObservedActions(m, graph, render.Options{Color: color})
			if err != nil {
				return err
			}
			fmt.Printf("Run %d, %s: most taken actions\n%s\n", run+1, name, text)
		}
		return nil
	}
}

func parseCell(s string) (grid.Coord, error) {
	c := grid.Coord{}
	if _, err := fmt.Sscanf(s, "%d,%d", &c.Col, &c.Row); err != nil {
		return c, fmt.Errorf("cell %q: expected col,row", s)
	}
	return c, nil
}

type rolloutConfig struct {
	Algorithm    string
	Start        grid.Coord
	Runs         int
	Episodes     int
	Horizon      int
	RecordTraces bool
}

// Rollout solves the problem and then plays the greedy policy against a
// random one in the sampled model
func Rollout(ctx context.Context, cfg config.Config, rc rolloutConfig) error {
	m, err := cfg.Build()
	if err != nil {
		return err
	}
	result, err := solveWith(m, rc.Algorithm, nil)
	if err != nil && !errors.Is(err, mdp.ErrNotConverged) {
		return err
	}
	fmt.Println(summary(rc.Algorithm, result))

	greedyEnv, err := mdp.NewEnvironment(m, rc.Start, m.Seed)
	if err != nil {
		return err
	}
	randomEnv, err := mdp.NewEnvironment(m, rc.Start, m.Seed)
	if err != nil {
		return err
	}

	c := types.NewComparison(&types.ComparisonConfig{
		Runs:         rc.Runs,
		Episodes:     rc.Episodes,
		Horizon:      rc.Horizon,
		RecordPath:   saveFile,
		RecordTraces: rc.RecordTraces,
	})
	c.AddAnalysis("Returns", types.NewReturnAnalyzer(m.Gamma), chainComparators(
		types.PrintComparator(),
		types.ReturnPlotter(saveFile),
	))
	c.AddAnalysis("Outcomes", types.NewOutcomeAnalyzer(), types.PrintComparator())
	c.AddAnalysis("Visits", types.NewVisitAnalyzer(), chainComparators(
		types.PrintComparator(),
		types.VisitRecorder(saveFile),
		visitHeatMaps(m, saveFile),
		printObservedActions(m),
	))

	c.AddExperiment(types.NewExperiment("greedy", mdp.NewGreedyPolicy(m), greedyEnv))
	c.AddExperiment(types.NewExperiment("random", types.NewRandomPolicy(m.Seed), randomEnv))
	return c.Run(ctx)
}

func RolloutCommand() *cobra.Command {
	rc := rolloutConfig{}
	var start string

	cmd := &cobra.Command{
		Use:   "rollout [problem]",
		Short: "Play the solved policy in the sampled model and compare it to a random policy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			rc.Start, err = parseCell(start)
			if err != nil {
				return err
			}
			stop, err := startProfiling()
			if err != nil {
				return err
			}
			defer stop()
			return Rollout(cmd.Context(), cfg, rc)
		},
	}
	cmd.PersistentFlags().StringVarP(&rc.Algorithm, "algorithm", "a", algorithmValue, "value or policy")
	cmd.PersistentFlags().StringVar(&start, "start", "0,0", "Start cell of every episode as col,row")
	cmd.PersistentFlags().IntVar(&rc.Runs, "runs", 1, "Number of experiment runs")
	cmd.PersistentFlags().IntVarP(&rc.Episodes, "episodes", "e", 1000, "Number of episodes to run")
	cmd.PersistentFlags().IntVar(&rc.Horizon, "horizon", 100, "Horizon of each episode")
	cmd.PersistentFlags().BoolVar(&rc.RecordTraces, "record-traces", false, "Record every trace as json lines")
	return cmd
}
