package playerstats

import (
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

// Line holds one value per catalogue statistic.
type Line [NumStats]statvalue.Value

func (l *Line) Get(s Stat) statvalue.Value {
	if !s.Valid() {
		return statvalue.Missing()
	}
	return l[s]
}

func (l *Line) Set(s Stat, v statvalue.Value) {
	if s.Valid() {
		l[s] = v
	}
}

// PresentCount returns how many statistics carry a number.
func (l *Line) PresentCount() int {
	n := 0
	for _, v := range l {
		if v.IsPresent() {
			n++
		}
	}
	return n
}

// Derive fills statistics that can be computed from others when a source
// omits them.
func (l *Line) Derive() {
	if !l[Disposals].IsPresent() {
		l[Disposals] = l[Kicks].Add(l[Handballs])
	}
	if !l[TotalPossessions].IsPresent() {
		l[TotalPossessions] = l[ContestedPossessions].Add(l[UncontestedPossessions])
	}
	if !l[Clearances].IsPresent() {
		l[Clearances] = l[CentreClearances].Add(l[StoppageClearances])
	}
}

// Record is one player's line for one match.
type Record struct {
	PlayerID  player.ID
	FirstName string
	Surname   string
	MatchID   string
	Team      string
	Opponent  string
	HomeTeam  string
	AwayTeam  string
	Venue     string
	Round     string
	Date      time.Time
	Season    int
	Position  string
	Stats     Line
}

func (r Record) FullName() string {
	return player.JoinName(r.FirstName, r.Surname)
}

// MatchKey identifies the match a record belongs to. Sources without a match
// id fall back to the date and both teams.
func (r Record) MatchKey() string {
	if r.MatchID != "" {
		return r.MatchID
	}
	home, away := r.HomeTeam, r.AwayTeam
	if home == "" && away == "" {
		home, away = r.Team, r.Opponent
		if away < home {
			home, away = away, home
		}
	}
	return r.Date.Format("2006-01-02") + ":" + home + ":" + away
}
