package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/gridmdp/server"
)

func ServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the problems and their solutions over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			server.NewServer(ctx, addr).Start()
			<-ctx.Done()
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	return cmd
}
