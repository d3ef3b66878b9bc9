package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/afl-stats/external/csvsource"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
)

type filterFlags struct {
	team     string
	season   int
	minGames int
	position string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.team, "team", "", "team name or alias")
	cmd.Flags().IntVar(&f.season, "season", 0, "season year")
	cmd.Flags().IntVar(&f.minGames, "min-games", query.DefaultMinGames, "minimum games played")
	cmd.Flags().StringVar(&f.position, "position", "", "player position")
}

func (f *filterFlags) state(stat string) query.FilterState {
	return query.FilterState{
		Team:     f.team,
		Season:   f.season,
		MinGames: f.minGames,
		Stat:     stat,
		Position: f.position,
	}
}

func ingestCmd(opts *globalOptions) *cobra.Command {
	var persist bool
	var export string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load, normalize and merge the input files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if persist {
				opts.useDB = true
			}
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if s.result == nil {
					return fmt.Errorf("no input files given")
				}
				if export != "" {
					if err := exportFacts(export, s); err != nil {
						return err
					}
				}
				if s.asJSON {
					return writeJSON(s.out, s.result, nil)
				}
				printIngest(s.out, s.result)
				printIssues(s.out, s.result.Report, reconcile.KindAmbiguousMerge, reconcile.KindDroppedRecord)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&persist, "persist", false, "save the dataset to postgres")
	cmd.Flags().StringVar(&export, "export", "", "write the fact table to this CSV file")
	return cmd
}

func exportFacts(path string, s *session) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return csvsource.WriteFacts(f, s.app.Session.Dataset().Facts())
}

func topCmd(opts *globalOptions) *cobra.Command {
	var filter filterFlags
	var stat, rankBy string
	var n int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank players by a statistic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if err := s.filter(ctx, filter.state(stat)); err != nil {
					return err
				}
				var mode query.Mode
				if rankBy != "" {
					parsed, err := query.ParseMode(rankBy)
					if err != nil {
						return err
					}
					mode = parsed
				}
				result, err := s.app.Session.Rank(ctx, n, mode)
				if err != nil {
					return err
				}
				return s.print(result, func() { printResult(s.out, result) })
			})
		},
	}
	filter.bind(cmd)
	cmd.Flags().StringVar(&stat, "stat", query.DefaultStat, "statistic to rank by")
	cmd.Flags().IntVar(&n, "n", query.DefaultTopN, "number of players")
	cmd.Flags().StringVar(&rankBy, "rank-by", "", "sum or average")
	return cmd
}

func aggregateCmd(opts *globalOptions) *cobra.Command {
	var filter filterFlags
	var stat, groupBy, mode, rankBy string
	var n int
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Sum, average or rank a statistic by group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if err := s.filter(ctx, filter.state(stat)); err != nil {
					return err
				}
				req := query.Request{Stat: stat, N: n}
				var err error
				if req.GroupBy, err = query.ParseGroupBy(groupBy); err != nil {
					return err
				}
				if req.Mode, err = query.ParseMode(mode); err != nil {
					return err
				}
				if rankBy != "" {
					if req.RankBy, err = query.ParseMode(rankBy); err != nil {
						return err
					}
				}
				result, err := s.app.Session.Aggregate(ctx, req)
				if err != nil {
					return err
				}
				return s.print(result, func() { printResult(s.out, result) })
			})
		},
	}
	filter.bind(cmd)
	cmd.Flags().StringVar(&stat, "stat", query.DefaultStat, "statistic to aggregate")
	cmd.Flags().StringVar(&groupBy, "group-by", string(query.GroupTeam), "none, team, season or player")
	cmd.Flags().StringVar(&mode, "mode", string(query.ModeSum), "sum, average or top")
	cmd.Flags().IntVar(&n, "n", query.DefaultTopN, "rows kept in top mode")
	cmd.Flags().StringVar(&rankBy, "rank-by", "", "sum or average, for top mode")
	return cmd
}

func ladderCmd(opts *globalOptions) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "ladder",
		Short: "Build a season ladder from match scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				rows, err := s.app.Insights.Ladder(ctx, season)
				if err != nil {
					return err
				}
				return s.print(rows, func() { printLadder(s.out, rows) })
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "season year, latest when unset")
	return cmd
}

func droughtsCmd(opts *globalOptions) *cobra.Command {
	var filter filterFlags
	var games int
	cmd := &cobra.Command{
		Use:   "droughts",
		Short: "List the longest runs of games without a goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if err := s.filter(ctx, filter.state("")); err != nil {
					return err
				}
				rows, err := s.app.Insights.GoalDroughts(ctx, games)
				if err != nil {
					return err
				}
				return s.print(rows, func() { printDroughts(s.out, rows) })
			})
		},
	}
	filter.bind(cmd)
	cmd.Flags().IntVar(&games, "games", query.DefaultDroughtMinGames, "minimum games with a goals value")
	return cmd
}

func consistencyCmd(opts *globalOptions) *cobra.Command {
	var filter filterFlags
	var stat string
	var games int
	var minAverage float64
	cmd := &cobra.Command{
		Use:   "consistency",
		Short: "Rank players by coefficient of variation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if err := s.filter(ctx, filter.state(stat)); err != nil {
					return err
				}
				rows, err := s.app.Insights.Consistency(ctx, stat, games, minAverage)
				if err != nil {
					return err
				}
				return s.print(rows, func() { printConsistency(s.out, rows) })
			})
		},
	}
	filter.bind(cmd)
	cmd.Flags().StringVar(&stat, "stat", query.DefaultStat, "statistic")
	cmd.Flags().IntVar(&games, "games", 0, "minimum games with a value")
	cmd.Flags().Float64Var(&minAverage, "min-average", 0, "minimum mean")
	return cmd
}
