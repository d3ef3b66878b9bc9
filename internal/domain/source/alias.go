package source

import (
	"os"
	"strings"

	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"gopkg.in/yaml.v3"
)

// Field names shared by the alias tables.
const (
	FieldPlayerID        = "player_id"
	FieldFirstName       = "first_name"
	FieldSurname         = "surname"
	FieldFullName        = "full_name"
	FieldAbbreviatedName = "abbreviated_name"
	FieldTeam            = "team"
	FieldSeason          = "season"
	FieldPosition        = "position"
	FieldJumperNumber    = "jumper_number"
	FieldHeight          = "height_cm"
	FieldWeight          = "weight_kg"
	FieldDateOfBirth     = "date_of_birth"
	FieldDraftYear       = "draft_year"
	FieldDraftPosition   = "draft_position"
	FieldDraftType       = "draft_type"
	FieldDebutYear       = "debut_year"
	FieldRecruitedFrom   = "recruited_from"
	FieldRetired         = "retired"
	FieldMatchID         = "match_id"
	FieldOpponent        = "opponent"
	FieldHomeTeam        = "home_team"
	FieldAwayTeam        = "away_team"
	FieldVenue           = "venue"
	FieldRound           = "round"
	FieldDate            = "date"
	FieldScrapedDate     = "scraped_date"
)

// AliasTable maps a field to the column spellings tried in priority order.
type AliasTable map[string][]string

// Clone returns a deep copy.
func (t AliasTable) Clone() AliasTable {
	out := make(AliasTable, len(t))
	for field, aliases := range t {
		out[field] = append([]string(nil), aliases...)
	}
	return out
}

// Resolve filters each alias list down to the columns present in header,
// keeping priority order. Fields with no present column map to nil.
func (t AliasTable) Resolve(header []string) AliasTable {
	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[col] = struct{}{}
	}
	out := make(AliasTable, len(t))
	for field, aliases := range t {
		var cols []string
		for _, alias := range aliases {
			if _, ok := present[alias]; ok {
				cols = append(cols, alias)
			}
		}
		out[field] = cols
	}
	return out
}

// Lookup returns the first value among the field's columns that is neither
// blank nor a missing-value token.
func (t AliasTable) Lookup(row Row, field string) (value string, column string, ok bool) {
	for _, col := range t[field] {
		if v := strings.TrimSpace(row[col]); !statvalue.IsMissingToken(v) {
			return v, col, true
		}
	}
	return "", "", false
}

var playerIDAliases = []string{"player_id", "playerId", "player.playerId", "player.player.player.playerId", "id"}
var firstNameAliases = []string{"first_name", "firstName", "player_first_name", "givenName", "player.givenName", "player.player.player.givenName"}
var surnameAliases = []string{"surname", "last_name", "lastName", "player_last_name", "player.surname", "player.player.player.surname"}
var teamAliases = []string{"team", "player_team", "team.name", "teamName", "club", "Team"}
var seasonAliases = []string{"season", "year", "compSeason.year", "Season"}

func detailsAliases() AliasTable {
	return AliasTable{
		FieldPlayerID:      playerIDAliases,
		FieldFirstName:     firstNameAliases,
		FieldSurname:       surnameAliases,
		FieldFullName:      {"full_name", "player_name", "name"},
		FieldTeam:          teamAliases,
		FieldSeason:        seasonAliases,
		FieldPosition:      {"position", "player_position", "Position"},
		FieldJumperNumber:  {"jumper_number", "jumperNumber", "guernsey_number", "jumper"},
		FieldHeight:        {"height_cm", "heightInCm", "height"},
		FieldWeight:        {"weight_kg", "weightInKg", "weight"},
		FieldDateOfBirth:   {"date_of_birth", "dateOfBirth", "dob", "DOB"},
		FieldDraftYear:     {"draft_year", "draftYear"},
		FieldDraftPosition: {"draft_position", "draftPosition", "draft_pick"},
		FieldDraftType:     {"draft_type", "draftType"},
		FieldDebutYear:     {"debut_year", "debutYear"},
		FieldRecruitedFrom: {"recruited_from", "recruitedFrom"},
		FieldRetired:       {"retired", "isRetired", "Retired"},
	}
}

func statsAliases() AliasTable {
	t := AliasTable{
		FieldPlayerID:  playerIDAliases,
		FieldFirstName: firstNameAliases,
		FieldSurname:   surnameAliases,
		FieldFullName:  {"player_name", "full_name", "name"},
		FieldMatchID:   {"match_id", "providerId", "matchId", "match.matchId"},
		FieldTeam:      teamAliases,
		FieldOpponent:  {"opponent", "opposition", "opponent_team"},
		FieldHomeTeam:  {"match_home_team", "home.team.name", "home_team", "homeTeam"},
		FieldAwayTeam:  {"match_away_team", "away.team.name", "away_team", "awayTeam"},
		FieldVenue:     {"venue_name", "venue.name", "venue"},
		FieldRound:     {"match_round", "round.roundNumber", "round", "round_number"},
		FieldDate:      {"utcStartTime", "date", "Date", "match_date", "match.date"},
		FieldSeason:    seasonAliases,
		FieldPosition:  {"player_position", "player.player.position", "position"},
	}
	for _, d := range playerstats.Definitions() {
		t[d.Key] = append([]string(nil), d.Aliases...)
	}
	return t
}

func priceAliases() AliasTable {
	t := AliasTable{
		FieldFullName:        {"full_name", "Full Name", "Player", "player_name", "name"},
		FieldAbbreviatedName: {"abbreviated_name", "Abbreviated Name"},
		FieldTeam:            {"team", "Team", "team_name"},
		FieldPlayerID:        {"player_id", "playerId"},
		FieldScrapedDate:     {"scraped_date", "Scraped Date", "date"},
	}
	for f := pricing.Field(0); f < pricing.NumFields; f++ {
		t[f.Key()] = f.Aliases()
	}
	return t
}

// DefaultAliases returns a fresh copy of the built-in table for kind.
func DefaultAliases(kind Kind) AliasTable {
	switch kind {
	case KindDetails:
		return detailsAliases().Clone()
	case KindStats:
		return statsAliases().Clone()
	case KindPrice:
		return priceAliases().Clone()
	default:
		return AliasTable{}
	}
}

// Aliases holds the alias tables for every kind.
type Aliases map[Kind]AliasTable

func DefaultAliasSet() Aliases {
	out := make(Aliases, len(AllKinds))
	for _, kind := range AllKinds {
		out[kind] = DefaultAliases(kind)
	}
	return out
}

// For returns the table for kind, falling back to the defaults.
func (a Aliases) For(kind Kind) AliasTable {
	if t, ok := a[kind]; ok && t != nil {
		return t
	}
	return DefaultAliases(kind)
}

type aliasFile map[string]map[string][]string

// LoadAliasFile reads a YAML document of the form
//
//	stats:
//	  date: [kickoff, utcStartTime]
//
// and returns the default tables with the listed columns given priority over
// the built-in spellings for each field.
func LoadAliasFile(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAliasYAML(data)
}

func ParseAliasYAML(data []byte) (Aliases, error) {
	var doc aliasFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	out := DefaultAliasSet()
	for rawKind, fields := range doc {
		kind, err := ParseKind(rawKind)
		if err != nil {
			return nil, err
		}
		table := out[kind]
		for field, cols := range fields {
			table[field] = prependUnique(cols, table[field])
		}
	}
	return out, nil
}

func prependUnique(first, rest []string) []string {
	out := make([]string, 0, len(first)+len(rest))
	seen := make(map[string]struct{}, len(first)+len(rest))
	for _, list := range [][]string{first, rest} {
		for _, col := range list {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			out = append(out, col)
		}
	}
	return out
}
