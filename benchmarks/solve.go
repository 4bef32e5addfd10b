package benchmarks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridmdp/config"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/render"
	"github.com/zeu5/gridmdp/types"
)

const (
	algorithmValue  = "value"
	algorithmPolicy = "policy"
)

// solveWith runs the named algorithm on the map. Progress goes to out when
// given.
func solveWith(m *mdp.Map, algorithm string, out *types.ParallelOutput) (*mdp.Result, error) {
	if out != nil {
		m.OnIteration = func(it mdp.Iteration) {
			out.TrySet(fmt.Sprintf("%s: iteration %d, delta %.6f, changed %d", it.Algorithm, it.Index, it.Delta, it.Changed))
		}
		defer func() { m.OnIteration = nil }()
	}
	switch algorithm {
	case algorithmValue:
		return m.ValueIteration()
	case algorithmPolicy:
		return m.PolicyIteration()
	}
	return nil, fmt.Errorf("unknown algorithm %q, expected value or policy", algorithm)
}

func summary(name string, r *mdp.Result) string {
	status := "converged"
	if !r.Converged {
		status = "not converged"
	}
	return fmt.Sprintf("%s: %s after %d iterations, last delta %.6f, %s", name, status, r.Iterations, r.LastDelta(), r.Elapsed)
}

func printGrids(m *mdp.Map) error {
	opts := render.Options{Color: color}
	values, err := render.Maze(m, render.PrintValues, opts)
	if err != nil {
		return err
	}
	actions, err := render.Maze(m, render.PrintActions, opts)
	if err != nil {
		return err
	}
	fmt.Println(values)
	fmt.Println(actions)
	return nil
}

// Solve builds the configured problem, solves it and prints the utilities
// and the policy. Plots are written to the save folder when asked.
func Solve(ctx context.Context, cfg config.Config, algorithm string, live, plots bool) error {
	m, err := cfg.Build()
	if err != nil {
		return err
	}

	var out *types.ParallelOutput
	var printer *types.TerminalPrinter
	if live {
		out = types.NewParallelOutput(algorithm + ": starting")
		printer = types.NewTerminalPrinter(ctx, os.Stdout, []*types.ParallelOutput{out}, 100*time.Millisecond)
		printer.Start()
	}
	result, err := solveWith(m, algorithm, out)
	if printer != nil {
		printer.Stop()
	}
	if err != nil && !errors.Is(err, mdp.ErrNotConverged) {
		return err
	}

	fmt.Println(summary(result.Algorithm, result))
	if perr := printGrids(m); perr != nil {
		return perr
	}
	if plots {
		name := cfg.Problem.Name
		if name == "" {
			name = "custom"
		}
		heat := path.Join(saveFile, name+"_"+algorithm+"_utilities.png")
		if perr := render.HeatMap(render.UtilityDataSet(m), name+" utilities", heat); perr != nil {
			return perr
		}
		conv := path.Join(saveFile, name+"_"+algorithm+"_convergence.png")
		if perr := render.ConvergencePlot(name, conv, []string{result.Algorithm}, []*mdp.Result{result}); perr != nil {
			return perr
		}
		fmt.Printf("Plots saved to %s\n", saveFile)
	}
	return err
}

func SolveCommand() *cobra.Command {
	var algorithm string
	var live bool
	var plots bool

	cmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "Solve a problem and print its utilities and policy",
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
			return Solve(cmd.Context(), cfg, algorithm, live, plots)
		},
	}
	cmd.PersistentFlags().StringVarP(&algorithm, "algorithm", "a", algorithmValue, "value or policy")
	cmd.PersistentFlags().BoolVar(&live, "live", false, "Show the iterations while solving")
	cmd.PersistentFlags().BoolVar(&plots, "plot", false, "Save a utility heat map and a convergence plot")
	return cmd
}
