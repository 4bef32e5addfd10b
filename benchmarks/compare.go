package benchmarks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridmdp/config"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/render"
	"github.com/zeu5/gridmdp/types"
	"golang.org/x/sync/errgroup"
)

// comparisonReport is how far apart the two solutions of a problem ended up
type comparisonReport struct {
	MaxUtilityDiff float64
	PolicyDiffs    int
}

func compareMaps(a, b *mdp.Map) (comparisonReport, error) {
	report := comparisonReport{}
	pa, err := a.GreedyPolicy()
	if err != nil {
		return report, err
	}
	pb, err := b.GreedyPolicy()
	if err != nil {
		return report, err
	}
	for i := range a.States {
		report.MaxUtilityDiff = math.Max(report.MaxUtilityDiff, math.Abs(a.States[i].Utility-b.States[i].Utility))
		if pa[i] != pb[i] {
			report.PolicyDiffs += 1
		}
	}
	return report, nil
}

// Compare solves the configured problem with both algorithms side by side
// and reports how they differ. Convergence plots go to the save folder.
func Compare(ctx context.Context, cfg config.Config, live bool) error {
	algorithms := []string{algorithmValue, algorithmPolicy}
	maps := make([]*mdp.Map, len(algorithms))
	results := make([]*mdp.Result, len(algorithms))
	outputs := make([]*types.ParallelOutput, len(algorithms))
	for i, algorithm := range algorithms {
		m, err := cfg.Build()
		if err != nil {
			return err
		}
		maps[i] = m
		outputs[i] = types.NewParallelOutput(algorithm + ": starting")
	}

	var printer *types.TerminalPrinter
	if live {
		printer = types.NewTerminalPrinter(ctx, os.Stdout, outputs, 100*time.Millisecond)
		printer.Start()
	}
	var g errgroup.Group
	for i, algorithm := range algorithms {
		i, algorithm := i, algorithm
		g.Go(func() error {
			result, err := solveWith(maps[i], algorithm, outputs[i])
			results[i] = result
			if result != nil {
				outputs[i].Set(summary(algorithm, result))
			}
			if errors.Is(err, mdp.ErrNotConverged) {
				return nil
			}
			return err
		})
	}
	err := g.Wait()
	if printer != nil {
		printer.Stop()
	}
	if err != nil {
		return err
	}

	if !live {
		for _, out := range outputs {
			fmt.Println(out.Get())
		}
	}
	report, err := compareMaps(maps[0], maps[1])
	if err != nil {
		return err
	}
	fmt.Printf("Max utility difference %.6f, %d states with a different policy\n", report.MaxUtilityDiff, report.PolicyDiffs)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Algorithm
	}
	name := cfg.Problem.Name
	if name == "" {
		name = "custom"
	}
	if err := render.ConvergencePlot(name, path.Join(saveFile, name+"_convergence.png"), names, results); err != nil {
		return err
	}
	if err := render.ConvergenceChart(path.Join(saveFile, name+"_convergence.html"), names, results); err != nil {
		return err
	}
	fmt.Printf("Convergence plots saved to %s\n", saveFile)
	return nil
}

func CompareCommand() *cobra.Command {
	var live bool
	cmd := &cobra.Command{
		Use:   "compare [problem]",
		Short: "Solve a problem with both algorithms and compare the solutions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			stop, err := startProfiling()
			if err != nil {
				return err
			}
			defer stop()
			return Compare(cmd.Context(), cfg, live)
		},
	}
	cmd.PersistentFlags().BoolVar(&live, "live", false, "Show the iterations of both solvers while running")
	return cmd
}
