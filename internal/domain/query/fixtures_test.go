package query

import (
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

type statSet map[playerstats.Stat]float64

func newFact(id int64, name, team string, season int, date string, stats statSet) fact.Fact {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	var line playerstats.Line
	for s, v := range stats {
		line.Set(s, statvalue.Number(v))
	}
	pid := player.NewID(id)
	return fact.Fact{
		PlayerKey: fact.PlayerKey(pid, name, team),
		PlayerID:  pid,
		FirstName: name,
		Team:      team,
		Season:    season,
		Date:      d,
		Stats:     line,
	}
}
