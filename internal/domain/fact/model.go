package fact

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

// Bio is the biographical part of a fact. When Linked is false every field
// is unknown.
type Bio struct {
	Linked        bool
	Season        int
	JumperNumber  statvalue.Value
	HeightCM      statvalue.Value
	WeightKG      statvalue.Value
	DateOfBirth   *time.Time
	DraftYear     statvalue.Value
	DraftPosition statvalue.Value
	DraftType     string
	DebutYear     statvalue.Value
	RecruitedFrom string
	Retired       statvalue.Flag
}

// BioFromRecord copies the biographical fields of r into a linked Bio.
func BioFromRecord(r player.Record) Bio {
	return Bio{
		Linked:        true,
		Season:        r.Season,
		JumperNumber:  r.JumperNumber,
		HeightCM:      r.HeightCM,
		WeightKG:      r.WeightKG,
		DateOfBirth:   r.DateOfBirth,
		DraftYear:     r.DraftYear,
		DraftPosition: r.DraftPosition,
		DraftType:     r.DraftType,
		DebutYear:     r.DebutYear,
		RecruitedFrom: r.RecruitedFrom,
		Retired:       r.Retired,
	}
}

// Price is the SuperCoach pricing attached to a fact, if any.
type Price struct {
	Linked      bool
	Values      pricing.Values
	ScrapedDate *time.Time
}

// Fact is one player's reconciled line for one match. Facts are built once by
// the merger and never modified afterwards.
type Fact struct {
	PlayerKey string
	PlayerID  player.ID
	FirstName string
	Surname   string
	Team      string
	Opponent  string
	HomeTeam  string
	AwayTeam  string
	Venue     string
	Round     string
	MatchID   string
	Date      time.Time
	Season    int
	Position  string
	Bio       Bio
	Stats     playerstats.Line
	Price     Price
}

func (f Fact) FullName() string {
	return player.JoinName(f.FirstName, f.Surname)
}

func (f Fact) Stat(s playerstats.Stat) statvalue.Value {
	return f.Stats.Get(s)
}

// MatchKey identifies the match; see playerstats.Record.MatchKey.
func (f Fact) MatchKey() string {
	if f.MatchID != "" {
		return f.MatchID
	}
	home, away := f.HomeTeam, f.AwayTeam
	if home == "" && away == "" {
		home, away = f.Team, f.Opponent
		if away < home {
			home, away = away, home
		}
	}
	return f.Date.Format("2006-01-02") + ":" + home + ":" + away
}

func (f Fact) Validate() error {
	if strings.TrimSpace(f.PlayerKey) == "" {
		return fmt.Errorf("player key is required")
	}
	if strings.TrimSpace(f.Team) == "" {
		return fmt.Errorf("team is required")
	}
	if f.Season <= 0 {
		return fmt.Errorf("season must be greater than zero")
	}
	if f.Stats.PresentCount() == 0 {
		return fmt.Errorf("at least one statistic is required")
	}
	return nil
}

// PlayerKey builds the identity key used to group facts by player. Known ids
// win; otherwise the normalized name and team are used.
func PlayerKey(id player.ID, fullName, team string) string {
	if id.Valid() {
		return "id:" + id.String()
	}
	return "name:" + player.NormalizeName(fullName) + "|" + strings.ToLower(team)
}

// Less orders facts by player identity, then date, then match. Facts with a
// numeric id sort before name-keyed facts.
func Less(a, b Fact) bool {
	if c := compareIdentity(a, b); c != 0 {
		return c < 0
	}
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.MatchKey() < b.MatchKey()
}

func compareIdentity(a, b Fact) int {
	aid, aok := a.PlayerID.Int64()
	bid, bok := b.PlayerID.Int64()
	switch {
	case aok && bok:
		if aid != bid {
			if aid < bid {
				return -1
			}
			return 1
		}
		return 0
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a.PlayerKey, b.PlayerKey)
}
