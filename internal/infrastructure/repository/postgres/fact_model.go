package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

const (
	tableFactDatasets    = "fact_datasets"
	tablePlayerMatchFact = "player_match_facts"
)

type datasetModel struct {
	ID        uuid.UUID `db:"id"`
	LoadedAt  time.Time `db:"loaded_at"`
	FactCount int       `db:"fact_count"`
}

type factRowModel struct {
	DatasetID     uuid.UUID           `db:"dataset_id"`
	Ordinal       int                 `db:"ordinal"`
	PlayerKey     string              `db:"player_key"`
	MatchKey      string              `db:"match_key"`
	PlayerID      sql.NullInt64       `db:"player_id"`
	FirstName     string              `db:"first_name"`
	Surname       string              `db:"surname"`
	Team          string              `db:"team"`
	Opponent      string              `db:"opponent"`
	HomeTeam      string              `db:"home_team"`
	AwayTeam      string              `db:"away_team"`
	Venue         string              `db:"venue"`
	Round         string              `db:"round"`
	MatchID       string              `db:"match_id"`
	MatchDate     time.Time           `db:"match_date"`
	Season        int                 `db:"season"`
	Position      string              `db:"position"`
	BioLinked     bool                `db:"bio_linked"`
	BioSeason     sql.NullInt64       `db:"bio_season"`
	JumperNumber  decimal.NullDecimal `db:"jumper_number"`
	HeightCM      decimal.NullDecimal `db:"height_cm"`
	WeightKG      decimal.NullDecimal `db:"weight_kg"`
	DateOfBirth   sql.NullTime        `db:"date_of_birth"`
	DraftYear     decimal.NullDecimal `db:"draft_year"`
	DraftPosition decimal.NullDecimal `db:"draft_position"`
	DraftType     string              `db:"draft_type"`
	DebutYear     decimal.NullDecimal `db:"debut_year"`
	RecruitedFrom string              `db:"recruited_from"`
	Retired       sql.NullBool        `db:"retired"`
	Stats         string              `db:"stats"`
	PriceLinked   bool                `db:"price_linked"`
	CurrentPrice  decimal.NullDecimal `db:"current_price"`
	TotalChange   decimal.NullDecimal `db:"total_change"`
	ChangePct     decimal.NullDecimal `db:"change_percentage"`
	LastChange    decimal.NullDecimal `db:"last_change"`
	Expected1     decimal.NullDecimal `db:"expected_price"`
	ExpChange1    decimal.NullDecimal `db:"expected_change"`
	Expected2     decimal.NullDecimal `db:"expected_price_2"`
	ExpChange2    decimal.NullDecimal `db:"expected_change_2"`
	Expected3     decimal.NullDecimal `db:"expected_price_3"`
	ExpChange3    decimal.NullDecimal `db:"expected_change_3"`
	ScrapedDate   sql.NullTime        `db:"scraped_date"`
}

// priceColumns returns pointers to the price columns in pricing.Field order.
func (m *factRowModel) priceColumns() [pricing.NumFields]*decimal.NullDecimal {
	return [pricing.NumFields]*decimal.NullDecimal{
		&m.CurrentPrice, &m.TotalChange, &m.ChangePct, &m.LastChange,
		&m.Expected1, &m.ExpChange1, &m.Expected2, &m.ExpChange2,
		&m.Expected3, &m.ExpChange3,
	}
}

func toFactRow(datasetID uuid.UUID, ordinal int, f fact.Fact) (factRowModel, error) {
	stats, err := encodeStats(f.Stats)
	if err != nil {
		return factRowModel{}, fmt.Errorf("encode stats for %s: %w", f.PlayerKey, err)
	}

	m := factRowModel{
		DatasetID:     datasetID,
		Ordinal:       ordinal,
		PlayerKey:     f.PlayerKey,
		MatchKey:      f.MatchKey(),
		FirstName:     f.FirstName,
		Surname:       f.Surname,
		Team:          f.Team,
		Opponent:      f.Opponent,
		HomeTeam:      f.HomeTeam,
		AwayTeam:      f.AwayTeam,
		Venue:         f.Venue,
		Round:         f.Round,
		MatchID:       f.MatchID,
		MatchDate:     f.Date.UTC(),
		Season:        f.Season,
		Position:      f.Position,
		BioLinked:     f.Bio.Linked,
		JumperNumber:  nullDecimal(f.Bio.JumperNumber),
		HeightCM:      nullDecimal(f.Bio.HeightCM),
		WeightKG:      nullDecimal(f.Bio.WeightKG),
		DateOfBirth:   nullTime(f.Bio.DateOfBirth),
		DraftYear:     nullDecimal(f.Bio.DraftYear),
		DraftPosition: nullDecimal(f.Bio.DraftPosition),
		DraftType:     f.Bio.DraftType,
		DebutYear:     nullDecimal(f.Bio.DebutYear),
		RecruitedFrom: f.Bio.RecruitedFrom,
		Stats:         stats,
		PriceLinked:   f.Price.Linked,
		ScrapedDate:   nullTime(f.Price.ScrapedDate),
	}
	if id, ok := f.PlayerID.Int64(); ok {
		m.PlayerID = sql.NullInt64{Int64: id, Valid: true}
	}
	if f.Bio.Linked {
		m.BioSeason = sql.NullInt64{Int64: int64(f.Bio.Season), Valid: true}
	}
	if v, ok := f.Bio.Retired.Bool(); ok {
		m.Retired = sql.NullBool{Bool: v, Valid: true}
	}
	cols := m.priceColumns()
	for field := pricing.Field(0); field < pricing.NumFields; field++ {
		*cols[field] = nullDecimal(f.Price.Values[field])
	}
	return m, nil
}

func (m factRowModel) toFact() (fact.Fact, error) {
	stats, err := decodeStats(m.Stats)
	if err != nil {
		return fact.Fact{}, fmt.Errorf("decode stats for %s: %w", m.PlayerKey, err)
	}

	f := fact.Fact{
		PlayerKey: m.PlayerKey,
		FirstName: m.FirstName,
		Surname:   m.Surname,
		Team:      m.Team,
		Opponent:  m.Opponent,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Venue:     m.Venue,
		Round:     m.Round,
		MatchID:   m.MatchID,
		Date:      m.MatchDate.UTC(),
		Season:    m.Season,
		Position:  m.Position,
		Stats:     stats,
	}
	if m.PlayerID.Valid {
		f.PlayerID = player.NewID(m.PlayerID.Int64)
	}
	if m.BioLinked {
		f.Bio = fact.Bio{
			Linked:        true,
			Season:        int(m.BioSeason.Int64),
			JumperNumber:  valueOf(m.JumperNumber),
			HeightCM:      valueOf(m.HeightCM),
			WeightKG:      valueOf(m.WeightKG),
			DateOfBirth:   timeOf(m.DateOfBirth),
			DraftYear:     valueOf(m.DraftYear),
			DraftPosition: valueOf(m.DraftPosition),
			DraftType:     m.DraftType,
			DebutYear:     valueOf(m.DebutYear),
			RecruitedFrom: m.RecruitedFrom,
		}
		if m.Retired.Valid {
			f.Bio.Retired = statvalue.FlagFalse
			if m.Retired.Bool {
				f.Bio.Retired = statvalue.FlagTrue
			}
		}
	}
	if m.PriceLinked {
		f.Price.Linked = true
		f.Price.ScrapedDate = timeOf(m.ScrapedDate)
		cols := m.priceColumns()
		for field := pricing.Field(0); field < pricing.NumFields; field++ {
			f.Price.Values[field] = valueOf(*cols[field])
		}
	}
	return f, nil
}

// encodeStats writes every statistic key, with null for missing values.
func encodeStats(line playerstats.Line) (string, error) {
	out := make(map[string]*float64, playerstats.NumStats)
	for s := playerstats.Stat(0); s < playerstats.NumStats; s++ {
		out[s.Key()] = line.Get(s).Ptr()
	}
	raw, err := sonic.MarshalString(out)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// decodeStats ignores keys that are no longer in the catalogue.
func decodeStats(raw string) (playerstats.Line, error) {
	var line playerstats.Line
	if raw == "" {
		return line, nil
	}
	var in map[string]*float64
	if err := sonic.UnmarshalString(raw, &in); err != nil {
		return line, err
	}
	for key, v := range in {
		s, ok := playerstats.Lookup(key)
		if !ok {
			continue
		}
		line.Set(s, statvalue.FromPtr(v))
	}
	return line, nil
}

func nullDecimal(v statvalue.Value) decimal.NullDecimal {
	f, ok := v.Float64()
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}

func valueOf(d decimal.NullDecimal) statvalue.Value {
	if !d.Valid {
		return statvalue.Missing()
	}
	return statvalue.Number(d.Decimal.InexactFloat64())
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timeOf(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
