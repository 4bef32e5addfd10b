package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/gridmdp/config"
	"github.com/zeu5/gridmdp/mdp"
)

var (
	gamma      float64
	stopCrit   float64
	maxSweeps  int
	maxRounds  int
	seed       uint64
	workers    int
	saveFile   string
	configFile string
	color      bool
	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "gridmdp",
		Short:        "Solve grid MDPs by value and policy iteration",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().Float64Var(&gamma, "gamma", mdp.DefaultGamma, "Discount factor")
	rootCommand.PersistentFlags().Float64Var(&stopCrit, "stop", mdp.DefaultStopCrit, "Value iteration stops once no utility changes by this much")
	rootCommand.PersistentFlags().IntVar(&maxSweeps, "max-sweeps", mdp.DefaultMaxSweeps, "Maximum number of value iteration sweeps")
	rootCommand.PersistentFlags().IntVar(&maxRounds, "max-rounds", mdp.DefaultMaxRounds, "Maximum number of policy iteration rounds")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 1, "Seed of the random initial policy and of the rollouts")
	rootCommand.PersistentFlags().IntVar(&workers, "workers", 1, "Goroutines sharing a value iteration sweep")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the plots and records in the specified folder")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Yaml run file, flags set on the command line take precedence")
	rootCommand.PersistentFlags().BoolVar(&color, "color", false, "Colour the printed grids")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a heap profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(ProblemsCommand())
	rootCommand.AddCommand(SolveCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(RolloutCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

// loadConfig reads the run file and lays the explicitly set flags over it.
// A problem named on the command line replaces the one in the file.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("gamma") {
		cfg.Solver.Gamma = gamma
	}
	if flags.Changed("stop") {
		cfg.Solver.StopCrit = stopCrit
	}
	if flags.Changed("max-sweeps") {
		cfg.Solver.MaxSweeps = maxSweeps
	}
	if flags.Changed("max-rounds") {
		cfg.Solver.MaxRounds = maxRounds
	}
	if flags.Changed("seed") {
		cfg.Solver.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Solver.Workers = workers
	}
	if len(args) > 0 {
		cfg.Problem = config.ProblemConfig{Name: args[0]}
	}
	if err := cfg.Solver.Check(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
