package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"github.com/riskibarqy/afl-stats/internal/usecase"
)

const maxPrintedIssues = 20

type jsonOutput struct {
	Load *usecase.IngestResult `json:"load,omitempty"`
	Data any                   `json:"data,omitempty"`
}

func writeJSON(w io.Writer, load *usecase.IngestResult, data any) error {
	enc := sonic.ConfigDefault.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{Load: load, Data: data})
}

// print writes payload as JSON, or the load summary followed by table.
func (s *session) print(payload any, table func()) error {
	if s.asJSON {
		return writeJSON(s.out, s.result, payload)
	}
	if s.result != nil {
		fmt.Fprintf(s.out, "facts=%d %s\n\n", s.result.Facts, s.result.Report.SummaryLine())
	} else if ds := s.app.Session.Dataset(); ds != nil {
		fmt.Fprintf(s.out, "facts=%d restored dataset %s\n\n", ds.Len(), ds.ID)
	}
	table()
	return nil
}

func printIngest(w io.Writer, r *usecase.IngestResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "dataset\t%s\n", r.DatasetID)
	for _, kind := range source.AllKinds {
		fmt.Fprintf(tw, "%s rows\t%d\n", kind, r.Rows[kind])
	}
	fmt.Fprintf(tw, "players\t%d\n", r.Players)
	fmt.Fprintf(tw, "match stats\t%d\n", r.Stats)
	fmt.Fprintf(tw, "prices\t%d\n", r.Prices)
	fmt.Fprintf(tw, "facts\t%d\n", r.Facts)
	fmt.Fprintf(tw, "persisted\t%t\n", r.Persisted)
	fmt.Fprintf(tw, "issues\t%s\n", r.Report.SummaryLine())
	_ = tw.Flush()
}

// printIssues lists the first issues of each kind.
func printIssues(w io.Writer, report reconcile.Report, kinds ...reconcile.Kind) {
	for _, kind := range kinds {
		issues := report.OfKind(kind)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", kind, len(issues))
		for i, issue := range issues {
			if i == maxPrintedIssues {
				fmt.Fprintf(w, "  ... %d more\n", len(issues)-i)
				break
			}
			fmt.Fprintf(w, "  %s\n", issue)
		}
	}
}

func printResult(w io.Writer, r query.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\tteam\t%s (%s)\tgames\n", r.GroupBy, r.Label, r.Mode)
	for i, row := range r.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\n", i+1, row.Label, row.Team, formatValue(row.Value), row.Present, row.Size)
	}
	_ = tw.Flush()
}

func printLadder(w io.Writer, rows []query.LadderRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tteam\tP\tW\tL\tD\tfor\tagainst\t%\tpts")
	for i, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%.0f\t%.0f\t%.1f\t%d\n",
			i+1, row.Team, row.Played, row.Wins, row.Losses, row.Draws,
			row.PointsFor, row.PointsAgainst, row.Percentage, row.Points)
	}
	_ = tw.Flush()
}

func printDroughts(w io.Writer, rows []query.DroughtRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "player\tteam\tgames\tgoals\tlongest\tcurrent")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n", row.Name, row.Team, row.Games, row.TotalGoals, row.MaxDrought, row.CurrentDrought)
	}
	_ = tw.Flush()
}

func printConsistency(w io.Writer, rows []query.ConsistencyRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "player\tteam\tgames\tmean\tstd dev\tcv")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%.3f\n", row.Name, row.Team, row.Games, row.Mean, row.StdDev, row.CV)
	}
	_ = tw.Flush()
}

func formatValue(v statvalue.Value) string {
	f, ok := v.Float64()
	if !ok {
		return "-"
	}
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
