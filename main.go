package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/zeu5/gridmdp/benchmarks"
)

// main entry point to all the commands
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// rootCommand defines a command line argument parser (some arguments and a subcommand to run)
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
