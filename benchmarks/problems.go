package benchmarks

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridmdp/problems"
	"github.com/zeu5/gridmdp/render"
)

func ProblemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "problems [problem]",
		Short: "List the registered problems or show the layout of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range problems.Names() {
					spec, err := problems.Lookup(name)
					if err != nil {
						return err
					}
					fmt.Printf("%s: %dx%d, %d walls, %d goals\n", name, spec.Layout.Cols, spec.Layout.Rows, len(spec.Layout.Walls), len(spec.Goals))
				}
				return nil
			}
			m, err := problems.Get(args[0])
			if err != nil {
				return err
			}
			layout, err := render.Maze(m, render.PrintValues, render.Options{Color: color})
			if err != nil {
				return err
			}
			fmt.Println(layout)
			return nil
		},
	}
}
