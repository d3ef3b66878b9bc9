package csvsource

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

var identityColumns = []string{
	"player_key",
	source.FieldPlayerID,
	source.FieldFirstName,
	source.FieldSurname,
	source.FieldTeam,
	source.FieldOpponent,
	source.FieldHomeTeam,
	source.FieldAwayTeam,
	source.FieldVenue,
	source.FieldRound,
	source.FieldMatchID,
	source.FieldDate,
	source.FieldSeason,
	source.FieldPosition,
}

var bioColumns = []string{
	"bio_linked",
	source.FieldJumperNumber,
	source.FieldHeight,
	source.FieldWeight,
	source.FieldDateOfBirth,
	source.FieldDraftYear,
	source.FieldDraftPosition,
	source.FieldDraftType,
	source.FieldDebutYear,
	source.FieldRecruitedFrom,
	source.FieldRetired,
}

// FactHeader is the column order of WriteFacts. Identity and statistic
// columns use the canonical field names, so an export reads back as a stats
// file.
func FactHeader() []string {
	out := make([]string, 0, len(identityColumns)+len(bioColumns)+int(playerstats.NumStats)+int(pricing.NumFields)+2)
	out = append(out, identityColumns...)
	out = append(out, bioColumns...)
	for s := playerstats.Stat(0); s < playerstats.NumStats; s++ {
		out = append(out, s.Key())
	}
	out = append(out, "price_linked")
	for f := pricing.Field(0); f < pricing.NumFields; f++ {
		out = append(out, f.Key())
	}
	out = append(out, source.FieldScrapedDate)
	return out
}

// WriteFacts writes facts as a flat table. Missing values are empty cells.
func WriteFacts(w io.Writer, facts []fact.Fact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FactHeader()); err != nil {
		return crerr.Wrap(err, "write fact header")
	}

	record := make([]string, 0, len(FactHeader()))
	for i := range facts {
		record = appendFact(record[:0], &facts[i])
		if err := cw.Write(record); err != nil {
			return crerr.Wrapf(err, "write fact %d", i+1)
		}
	}
	cw.Flush()
	return crerr.Wrap(cw.Error(), "flush facts")
}

func appendFact(out []string, f *fact.Fact) []string {
	out = append(out,
		f.PlayerKey,
		f.PlayerID.String(),
		f.FirstName,
		f.Surname,
		f.Team,
		f.Opponent,
		f.HomeTeam,
		f.AwayTeam,
		f.Venue,
		f.Round,
		f.MatchID,
		f.Date.UTC().Format(time.RFC3339),
		strconv.Itoa(f.Season),
		f.Position,
	)

	b := f.Bio
	out = append(out,
		strconv.FormatBool(b.Linked),
		b.JumperNumber.String(),
		b.HeightCM.String(),
		b.WeightKG.String(),
		formatDate(b.DateOfBirth, "2006-01-02"),
		b.DraftYear.String(),
		b.DraftPosition.String(),
		b.DraftType,
		b.DebutYear.String(),
		b.RecruitedFrom,
		b.Retired.String(),
	)

	for s := playerstats.Stat(0); s < playerstats.NumStats; s++ {
		out = append(out, cell(f.Stats.Get(s)))
	}

	out = append(out, strconv.FormatBool(f.Price.Linked))
	for p := pricing.Field(0); p < pricing.NumFields; p++ {
		out = append(out, cell(f.Price.Values[p]))
	}
	return append(out, formatDate(f.Price.ScrapedDate, "2006-01-02"))
}

func cell(v statvalue.Value) string {
	if !v.IsPresent() {
		return ""
	}
	return v.String()
}

func formatDate(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(layout)
}
