// Command aflstats loads AFL player, match-stat and price files, reconciles
// them into one fact table and answers aggregate queries over it.
//
// Usage:
//
//	aflstats ingest --details players.csv --stats stats.csv --prices prices.csv --persist
//	aflstats top --stat goals --n 10 --team Richmond --season 2024
//	aflstats aggregate --group-by team --stat disposals --mode average
//	aflstats ladder --season 2024
//	aflstats droughts --min-games 5
//	aflstats consistency --stat disposals --json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "aflstats",
		Short:         "AFL stats reconciliation and query CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	opts.bind(root)

	root.AddCommand(ingestCmd(opts))
	root.AddCommand(topCmd(opts))
	root.AddCommand(aggregateCmd(opts))
	root.AddCommand(ladderCmd(opts))
	root.AddCommand(droughtsCmd(opts))
	root.AddCommand(consistencyCmd(opts))
	return root
}
