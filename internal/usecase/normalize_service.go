package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"github.com/riskibarqy/afl-stats/internal/domain/team"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeService maps raw source rows onto typed records. Row problems are
// collected into the batch report; they never fail the call.
type NormalizeService struct {
	aliases source.Aliases
	logger  *logging.Logger
}

func NewNormalizeService(aliases source.Aliases, logger *logging.Logger) *NormalizeService {
	if aliases == nil {
		aliases = source.DefaultAliasSet()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NormalizeService{
		aliases: aliases,
		logger:  logger,
	}
}

// Normalize dispatches on kind. The only error is an unknown kind.
func (s *NormalizeService) Normalize(ctx context.Context, rows []source.Row, kind source.Kind) (source.Batch, error) {
	ctx, span := startUsecaseSpan(ctx, "NormalizeService.Normalize")
	defer span.End()

	var batch source.Batch
	switch kind {
	case source.KindDetails:
		batch.Players, batch.Report = s.NormalizeDetails(ctx, rows)
	case source.KindStats:
		batch.Stats, batch.Report = s.NormalizeStats(ctx, rows)
	case source.KindPrice:
		batch.Prices, batch.Report = s.NormalizePrices(ctx, rows)
	default:
		return source.Batch{}, fmt.Errorf("%w: unknown source kind %q", ErrInvalidInput, kind)
	}

	s.logger.InfoContext(ctx, "normalized batch",
		"kind", string(kind),
		"rows", len(rows),
		"records", batch.Len(),
		"rejected", batch.Report.Count(reconcile.KindSchemaMismatch),
		"coercion_failures", batch.Report.Count(reconcile.KindCoercionFailure),
	)
	return batch, nil
}

func (s *NormalizeService) NormalizeDetails(ctx context.Context, rows []source.Row) ([]player.Record, reconcile.Report) {
	table := s.aliases.For(source.KindDetails).Resolve(source.Header(rows))
	var report reconcile.Report
	out := make([]player.Record, 0, len(rows))

	for i, row := range rows {
		r := rowReader{table: table, row: row, kind: source.KindDetails, index: i + 1, report: &report}

		rec := player.Record{
			ID:            r.id(),
			Position:      r.text(source.FieldPosition),
			JumperNumber:  r.number(source.FieldJumperNumber),
			HeightCM:      r.number(source.FieldHeight),
			WeightKG:      r.number(source.FieldWeight),
			DateOfBirth:   r.optionalDate(source.FieldDateOfBirth),
			DraftYear:     r.number(source.FieldDraftYear),
			DraftPosition: r.number(source.FieldDraftPosition),
			DraftType:     r.text(source.FieldDraftType),
			DebutYear:     r.number(source.FieldDebutYear),
			RecruitedFrom: r.text(source.FieldRecruitedFrom),
			Retired:       r.flag(source.FieldRetired),
		}
		rec.FirstName, rec.Surname = r.names()

		if !rec.ID.Valid() && rec.FullName() == "" {
			r.reject(source.FieldPlayerID, "no player id or name")
			continue
		}
		if rec.Team = r.team(); rec.Team == "" {
			r.reject(source.FieldTeam, "team is required")
			continue
		}
		season, ok := r.season()
		if !ok {
			r.reject(source.FieldSeason, "season is required")
			continue
		}
		rec.Season = season
		out = append(out, rec)
	}
	return out, report
}

func (s *NormalizeService) NormalizeStats(ctx context.Context, rows []source.Row) ([]playerstats.Record, reconcile.Report) {
	table := s.aliases.For(source.KindStats).Resolve(source.Header(rows))
	var report reconcile.Report
	out := make([]playerstats.Record, 0, len(rows))

	for i, row := range rows {
		r := rowReader{table: table, row: row, kind: source.KindStats, index: i + 1, report: &report}

		rec := playerstats.Record{
			PlayerID: r.id(),
			MatchID:  r.text(source.FieldMatchID),
			HomeTeam: r.teamField(source.FieldHomeTeam),
			AwayTeam: r.teamField(source.FieldAwayTeam),
			Opponent: r.teamField(source.FieldOpponent),
			Venue:    r.text(source.FieldVenue),
			Round:    r.text(source.FieldRound),
			Position: r.text(source.FieldPosition),
		}
		rec.FirstName, rec.Surname = r.names()

		if !rec.PlayerID.Valid() && rec.FullName() == "" {
			r.reject(source.FieldPlayerID, "no player id or name")
			continue
		}
		if rec.Team = r.team(); rec.Team == "" {
			r.reject(source.FieldTeam, "team is required")
			continue
		}
		date, ok := r.requiredDate(source.FieldDate)
		if !ok {
			continue
		}
		rec.Date = date

		if season, ok := r.season(); ok {
			rec.Season = season
		} else {
			rec.Season = date.Year()
		}
		if rec.Opponent == "" {
			switch {
			case team.Same(rec.Team, rec.HomeTeam):
				rec.Opponent = rec.AwayTeam
			case team.Same(rec.Team, rec.AwayTeam):
				rec.Opponent = rec.HomeTeam
			}
		}

		for _, d := range playerstats.Definitions() {
			rec.Stats.Set(d.Stat, r.number(d.Key))
		}
		rec.Stats.Derive()
		if rec.Stats.PresentCount() == 0 {
			r.reject("", "row carries no statistics")
			continue
		}
		out = append(out, rec)
	}
	return out, report
}

func (s *NormalizeService) NormalizePrices(ctx context.Context, rows []source.Row) ([]pricing.Record, reconcile.Report) {
	table := s.aliases.For(source.KindPrice).Resolve(source.Header(rows))
	var report reconcile.Report
	out := make([]pricing.Record, 0, len(rows))

	for i, row := range rows {
		r := rowReader{table: table, row: row, kind: source.KindPrice, index: i + 1, report: &report}

		rec := pricing.Record{
			FullName:        strings.Join(strings.Fields(r.text(source.FieldFullName)), " "),
			AbbreviatedName: r.text(source.FieldAbbreviatedName),
			Team:            r.team(),
			PlayerID:        r.id(),
		}
		if rec.FullName == "" {
			r.reject(source.FieldFullName, "full name is required")
			continue
		}
		scraped, ok := r.requiredDate(source.FieldScrapedDate)
		if !ok {
			continue
		}
		rec.ScrapedDate = scraped

		for f := pricing.Field(0); f < pricing.NumFields; f++ {
			rec.Values[f] = r.number(f.Key())
		}
		out = append(out, rec)
	}
	return out, report
}

// rowReader reads one row through a resolved alias table, reporting coercion
// failures as it goes.
type rowReader struct {
	table  source.AliasTable
	row    source.Row
	kind   source.Kind
	index  int
	report *reconcile.Report
}

func (r *rowReader) lookup(field string) (string, string, bool) {
	return r.table.Lookup(r.row, field)
}

func (r *rowReader) text(field string) string {
	v, _, ok := r.lookup(field)
	if !ok || statvalue.IsMissingToken(v) {
		return ""
	}
	return v
}

func (r *rowReader) team() string {
	return r.teamField(source.FieldTeam)
}

func (r *rowReader) teamField(field string) string {
	v := r.text(field)
	if v == "" {
		return ""
	}
	return team.Canonical(v)
}

func (r *rowReader) number(field string) statvalue.Value {
	raw, col, ok := r.lookup(field)
	if !ok {
		return statvalue.Missing()
	}
	v := statvalue.Parse(raw)
	if v.IsInvalid() {
		r.report.Addf(reconcile.KindCoercionFailure, string(r.kind), r.index, col, raw, "value is not numeric")
		return statvalue.Missing()
	}
	return v
}

func (r *rowReader) flag(field string) statvalue.Flag {
	raw, col, ok := r.lookup(field)
	if !ok {
		return statvalue.FlagUnknown
	}
	f, ok := statvalue.ParseFlag(raw)
	if !ok {
		r.report.Addf(reconcile.KindCoercionFailure, string(r.kind), r.index, col, raw, "value is not a boolean")
	}
	return f
}

func (r *rowReader) id() player.ID {
	raw, col, ok := r.lookup(source.FieldPlayerID)
	if !ok {
		return player.ID{}
	}
	id, ok := player.ParseID(raw)
	if !ok {
		r.report.Addf(reconcile.KindCoercionFailure, string(r.kind), r.index, col, raw, "player id is not an integer")
	}
	return id
}

// names returns first name and surname, splitting the full name column at
// the first space when the parts are absent.
func (r *rowReader) names() (string, string) {
	first, last := r.text(source.FieldFirstName), r.text(source.FieldSurname)
	if first != "" || last != "" {
		return first, last
	}
	parts := strings.Fields(r.text(source.FieldFullName))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func (r *rowReader) season() (int, bool) {
	raw, col, ok := r.lookup(source.FieldSeason)
	if !ok {
		return 0, false
	}
	v, present := statvalue.Parse(raw).Float64()
	if !present || v <= 0 || v != float64(int(v)) {
		r.report.Addf(reconcile.KindCoercionFailure, string(r.kind), r.index, col, raw, "season is not a year")
		return 0, false
	}
	return int(v), true
}

func (r *rowReader) optionalDate(field string) *time.Time {
	raw, col, ok := r.lookup(field)
	if !ok || statvalue.IsMissingToken(raw) {
		return nil
	}
	t, ok := parseDate(raw)
	if !ok {
		r.report.Addf(reconcile.KindCoercionFailure, string(r.kind), r.index, col, raw, "value is not a date")
		return nil
	}
	return &t
}

func (r *rowReader) requiredDate(field string) (time.Time, bool) {
	raw, col, ok := r.lookup(field)
	if !ok || statvalue.IsMissingToken(raw) {
		r.reject(field, field+" is required")
		return time.Time{}, false
	}
	t, ok := parseDate(raw)
	if !ok {
		r.report.Addf(reconcile.KindSchemaMismatch, string(r.kind), r.index, col, raw, "%s is not a date", field)
		return time.Time{}, false
	}
	return t, true
}

func (r *rowReader) reject(field, message string) {
	r.report.Add(reconcile.Issue{
		Kind:    reconcile.KindSchemaMismatch,
		Source:  string(r.kind),
		Row:     r.index,
		Field:   field,
		Message: message,
	})
}
