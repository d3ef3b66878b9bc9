package playerstats

import (
	"sort"
	"strings"
)

// Stat identifies one per-match performance statistic.
type Stat int

const (
	Goals Stat = iota
	Behinds
	SuperGoals
	Kicks
	Handballs
	Disposals
	Marks
	Bounces
	Tackles
	ContestedPossessions
	UncontestedPossessions
	TotalPossessions
	InsideFifties
	MarksInsideFifty
	ContestedMarks
	Hitouts
	OnePercenters
	DisposalEfficiency
	Clangers
	FreeKicksFor
	FreeKicksAgainst
	AFLFantasyScore
	SuperCoachScore
	Rebounds
	GoalAssists
	GoalAccuracy
	RatingPoints
	Turnovers
	Intercepts
	TacklesInsideFifty
	ShotsAtGoal
	ScoreInvolvements
	MetresGained
	CentreClearances
	StoppageClearances
	Clearances
	TimeOnGroundPercentage
	BrownlowVotes
	EffectiveKicks
	KickEfficiency
	EffectiveDisposals
	MarksOnLead
	InterceptMarks
	HitoutsToAdvantage
	HitoutWinPercentage
	GroundBallGets
	ForwardFiftyGroundBallGets
	ScoreLaunches
	PressureActs
	DefensiveHalfPressureActs
	Spoils
	RuckContests
	ContestDefensiveOneOnOnes
	ContestDefensiveLosses
	ContestOffensiveOneOnOnes
	ContestOffensiveWins
	CentreBounceAttendances
	KickIns

	NumStats
)

// Definition describes a statistic and the column spellings sources use for it.
type Definition struct {
	Stat    Stat
	Key     string
	Label   string
	Aliases []string
}

var definitions = [NumStats]Definition{
	{Goals, "goals", "Goals", []string{"goals", "Goals"}},
	{Behinds, "behinds", "Behinds", []string{"behinds", "Behinds"}},
	{SuperGoals, "super_goals", "Super Goals", []string{"super_goals", "superGoals"}},
	{Kicks, "kicks", "Kicks", []string{"kicks", "Kicks"}},
	{Handballs, "handballs", "Handballs", []string{"handballs", "Handballs"}},
	{Disposals, "disposals", "Disposals", []string{"disposals", "Disposals"}},
	{Marks, "marks", "Marks", []string{"marks", "Marks"}},
	{Bounces, "bounces", "Bounces", []string{"bounces", "Bounces"}},
	{Tackles, "tackles", "Tackles", []string{"tackles", "Tackles"}},
	{ContestedPossessions, "contested_possessions", "Contested Possessions", []string{"contested_possessions", "contestedPossessions"}},
	{UncontestedPossessions, "uncontested_possessions", "Uncontested Possessions", []string{"uncontested_possessions", "uncontestedPossessions"}},
	{TotalPossessions, "total_possessions", "Total Possessions", []string{"total_possessions", "totalPossessions"}},
	{InsideFifties, "inside_fifties", "Inside 50s", []string{"inside_fifties", "inside50s", "inside_50s"}},
	{MarksInsideFifty, "marks_inside_fifty", "Marks Inside 50", []string{"marks_inside_fifty", "marksInside50", "marks_inside_50"}},
	{ContestedMarks, "contested_marks", "Contested Marks", []string{"contested_marks", "contestedMarks"}},
	{Hitouts, "hitouts", "Hitouts", []string{"hitouts", "Hitouts"}},
	{OnePercenters, "one_percenters", "One Percenters", []string{"one_percenters", "onePercenters"}},
	{DisposalEfficiency, "disposal_efficiency", "Disposal Efficiency %", []string{"disposal_efficiency", "disposalEfficiency"}},
	{Clangers, "clangers", "Clangers", []string{"clangers", "Clangers"}},
	{FreeKicksFor, "free_kicks_for", "Free Kicks For", []string{"free_kicks_for", "freesFor"}},
	{FreeKicksAgainst, "free_kicks_against", "Free Kicks Against", []string{"free_kicks_against", "freesAgainst"}},
	{AFLFantasyScore, "afl_fantasy_score", "AFL Fantasy Score", []string{"afl_fantasy_score", "dreamTeamPoints", "fantasy_score"}},
	{SuperCoachScore, "supercoach_score", "SuperCoach Score", []string{"supercoach_score", "superCoachPoints", "sc_score"}},
	{Rebounds, "rebounds", "Rebound 50s", []string{"rebounds", "rebound50s", "rebound_50s"}},
	{GoalAssists, "goal_assists", "Goal Assists", []string{"goal_assists", "goalAssists"}},
	{GoalAccuracy, "goal_accuracy", "Goal Accuracy %", []string{"goal_accuracy", "goalAccuracy"}},
	{RatingPoints, "rating_points", "Rating Points", []string{"rating_points", "ratingPoints"}},
	{Turnovers, "turnovers", "Turnovers", []string{"turnovers", "Turnovers"}},
	{Intercepts, "intercepts", "Intercepts", []string{"intercepts", "Intercepts"}},
	{TacklesInsideFifty, "tackles_inside_fifty", "Tackles Inside 50", []string{"tackles_inside_fifty", "tacklesInside50"}},
	{ShotsAtGoal, "shots_at_goal", "Shots At Goal", []string{"shots_at_goal", "shotsAtGoal"}},
	{ScoreInvolvements, "score_involvements", "Score Involvements", []string{"score_involvements", "scoreInvolvements"}},
	{MetresGained, "metres_gained", "Metres Gained", []string{"metres_gained", "metresGained"}},
	{CentreClearances, "centre_clearances", "Centre Clearances", []string{"centre_clearances", "clearances.centreClearances", "centreClearances"}},
	{StoppageClearances, "stoppage_clearances", "Stoppage Clearances", []string{"stoppage_clearances", "clearances.stoppageClearances", "stoppageClearances"}},
	{Clearances, "clearances", "Clearances", []string{"clearances", "clearances.totalClearances", "totalClearances"}},
	{TimeOnGroundPercentage, "time_on_ground_percentage", "Time On Ground %", []string{"time_on_ground_percentage", "timeOnGroundPercentage"}},
	{BrownlowVotes, "brownlow_votes", "Brownlow Votes", []string{"brownlow_votes", "brownlowVotes"}},
	{EffectiveKicks, "effective_kicks", "Effective Kicks", []string{"effective_kicks", "extendedStats.effectiveKicks"}},
	{KickEfficiency, "kick_efficiency", "Kick Efficiency %", []string{"kick_efficiency", "extendedStats.kickEfficiency"}},
	{EffectiveDisposals, "effective_disposals", "Effective Disposals", []string{"effective_disposals", "extendedStats.effectiveDisposals"}},
	{MarksOnLead, "marks_on_lead", "Marks On Lead", []string{"marks_on_lead", "extendedStats.marksOnLead"}},
	{InterceptMarks, "intercept_marks", "Intercept Marks", []string{"intercept_marks", "extendedStats.interceptMarks"}},
	{HitoutsToAdvantage, "hitouts_to_advantage", "Hitouts To Advantage", []string{"hitouts_to_advantage", "extendedStats.hitoutsToAdvantage"}},
	{HitoutWinPercentage, "hitout_win_percentage", "Hitout Win %", []string{"hitout_win_percentage", "extendedStats.hitoutWinPercentage"}},
	{GroundBallGets, "ground_ball_gets", "Ground Ball Gets", []string{"ground_ball_gets", "extendedStats.groundBallGets"}},
	{ForwardFiftyGroundBallGets, "f50_ground_ball_gets", "Forward 50 Ground Ball Gets", []string{"f50_ground_ball_gets", "extendedStats.f50GroundBallGets"}},
	{ScoreLaunches, "score_launches", "Score Launches", []string{"score_launches", "extendedStats.scoreLaunches"}},
	{PressureActs, "pressure_acts", "Pressure Acts", []string{"pressure_acts", "extendedStats.pressureActs"}},
	{DefensiveHalfPressureActs, "def_half_pressure_acts", "Defensive Half Pressure Acts", []string{"def_half_pressure_acts", "extendedStats.defHalfPressureActs"}},
	{Spoils, "spoils", "Spoils", []string{"spoils", "extendedStats.spoils"}},
	{RuckContests, "ruck_contests", "Ruck Contests", []string{"ruck_contests", "extendedStats.ruckContests"}},
	{ContestDefensiveOneOnOnes, "contest_def_one_on_ones", "Defensive One-On-Ones", []string{"contest_def_one_on_ones", "extendedStats.contestDefOneOnOnes"}},
	{ContestDefensiveLosses, "contest_def_losses", "Defensive One-On-One Losses", []string{"contest_def_losses", "extendedStats.contestDefLosses"}},
	{ContestOffensiveOneOnOnes, "contest_off_one_on_ones", "Offensive One-On-Ones", []string{"contest_off_one_on_ones", "extendedStats.contestOffOneOnOnes"}},
	{ContestOffensiveWins, "contest_off_wins", "Offensive One-On-One Wins", []string{"contest_off_wins", "extendedStats.contestOffWins"}},
	{CentreBounceAttendances, "centre_bounce_attendances", "Centre Bounce Attendances", []string{"centre_bounce_attendances", "extendedStats.centreBounceAttendances"}},
	{KickIns, "kick_ins", "Kick Ins", []string{"kick_ins", "extendedStats.kickins"}},
}

var byKey = buildKeyIndex()

func buildKeyIndex() map[string]Stat {
	out := make(map[string]Stat, int(NumStats)*3)
	for _, d := range definitions {
		out[d.Key] = d.Stat
		for _, alias := range d.Aliases {
			out[strings.ToLower(alias)] = d.Stat
		}
	}
	return out
}

func (s Stat) Valid() bool {
	return s >= 0 && s < NumStats
}

func (s Stat) Definition() Definition {
	if !s.Valid() {
		return Definition{Stat: s}
	}
	return definitions[s]
}

func (s Stat) Key() string {
	return s.Definition().Key
}

func (s Stat) Label() string {
	return s.Definition().Label
}

func (s Stat) String() string {
	return s.Key()
}

// Lookup resolves a canonical key or any known source spelling. Matching is
// case-insensitive.
func Lookup(name string) (Stat, bool) {
	s, ok := byKey[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Definitions returns the catalogue in declaration order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions[:])
	return out
}

// Keys returns the canonical keys sorted alphabetically.
func Keys() []string {
	out := make([]string, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d.Key)
	}
	sort.Strings(out)
	return out
}
