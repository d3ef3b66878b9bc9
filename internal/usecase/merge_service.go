package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
)

const (
	mergeSourceDetails = "details"
	mergeSourceStats   = "stats"
	mergeSourcePrice   = "price"
)

// MergeService joins biographical, match and price records into facts. The
// output does not depend on the order of its inputs.
type MergeService struct {
	logger *logging.Logger
}

func NewMergeService(logger *logging.Logger) *MergeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MergeService{logger: logger}
}

func (s *MergeService) Merge(
	ctx context.Context,
	players []player.Record,
	stats []playerstats.Record,
	prices []pricing.Record,
) ([]fact.Fact, reconcile.Report) {
	ctx, span := startUsecaseSpan(ctx, "MergeService.Merge")
	defer span.End()

	var report reconcile.Report
	bios := newBioIndex(players, &report)

	sortedStats := make([]playerstats.Record, len(stats))
	copy(sortedStats, stats)
	sort.SliceStable(sortedStats, func(i, j int) bool {
		return statRecordLess(&sortedStats[i], &sortedStats[j])
	})

	facts := make([]fact.Fact, 0, len(sortedStats))
	seen := make(map[string]struct{}, len(sortedStats))
	linkedKeys := make(map[*player.Record]map[string]struct{})
	factKeysByName := make(map[string][]string)
	latestSeason := make(map[string]int)
	reportedAmbiguity := make(map[string]bool)
	unlinked := 0

	for i := range sortedStats {
		rec := &sortedStats[i]
		bio, ambiguous := bios.resolve(rec.PlayerID, rec.FullName(), rec.Team, rec.Season)
		if ambiguous != nil && !reportedAmbiguity[ambiguous.key()] {
			reportedAmbiguity[ambiguous.key()] = true
			report.Add(reconcile.Issue{
				Kind:    reconcile.KindAmbiguousMerge,
				Source:  mergeSourceStats,
				Field:   "full_name",
				Value:   rec.FullName(),
				Message: ambiguous.message(),
			})
		}

		f := buildFact(rec, bio)
		dupKey := f.PlayerKey + "@" + f.MatchKey()
		if _, dup := seen[dupKey]; dup {
			report.Addf(reconcile.KindDroppedRecord, mergeSourceStats, 0, "match_id", f.MatchKey(),
				"duplicate line for %s in match", describePlayer(f))
			continue
		}
		seen[dupKey] = struct{}{}

		if err := f.Validate(); err != nil {
			report.Addf(reconcile.KindDroppedRecord, mergeSourceStats, 0, "", f.MatchKey(),
				"%s: %v", describePlayer(f), err)
			continue
		}

		if bio != nil {
			if linkedKeys[bio] == nil {
				linkedKeys[bio] = make(map[string]struct{}, 1)
			}
			linkedKeys[bio][f.PlayerKey] = struct{}{}
		} else {
			unlinked++
		}

		nameKey := nameTeamKey(f.FullName(), f.Team)
		if !containsString(factKeysByName[nameKey], f.PlayerKey) {
			factKeysByName[nameKey] = append(factKeysByName[nameKey], f.PlayerKey)
		}
		if f.Season > latestSeason[f.PlayerKey] {
			latestSeason[f.PlayerKey] = f.Season
		}
		facts = append(facts, f)
	}

	resolver := priceResolver{
		bios:           bios,
		linkedKeys:     linkedKeys,
		factKeysByName: factKeysByName,
		latestSeason:   latestSeason,
		factIDs:        factIDs(facts),
	}
	latestPrice := s.resolvePrices(prices, &resolver, &report)

	for i := range facts {
		if p, ok := latestPrice[facts[i].PlayerKey]; ok {
			scraped := p.ScrapedDate
			facts[i].Price = fact.Price{
				Linked:      true,
				Values:      p.Values,
				ScrapedDate: &scraped,
			}
		}
	}

	sort.SliceStable(facts, func(i, j int) bool {
		return fact.Less(facts[i], facts[j])
	})

	s.logger.InfoContext(ctx, "merged facts",
		"facts", len(facts),
		"without_bio", unlinked,
		"priced_players", len(latestPrice),
		"ambiguous", report.Count(reconcile.KindAmbiguousMerge),
		"dropped", report.Count(reconcile.KindDroppedRecord),
	)
	return facts, report
}

func (s *MergeService) resolvePrices(prices []pricing.Record, resolver *priceResolver, report *reconcile.Report) map[string]pricing.Record {
	sorted := make([]pricing.Record, len(prices))
	copy(sorted, prices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priceRecordLess(&sorted[i], &sorted[j])
	})

	latest := make(map[string]pricing.Record)
	for i := range sorted {
		p := &sorted[i]
		keys, ambiguous := resolver.resolve(p)
		if ambiguous != "" {
			report.Addf(reconcile.KindAmbiguousMerge, mergeSourcePrice, 0, "full_name", p.FullName, "%s", ambiguous)
		}
		if len(keys) == 0 {
			report.Addf(reconcile.KindDroppedRecord, mergeSourcePrice, 0, "full_name", p.FullName,
				"no player matches %q (%s)", p.FullName, valueOr(p.Team, "no team"))
			continue
		}
		for _, key := range keys {
			if cur, ok := latest[key]; ok && !p.ScrapedDate.After(cur.ScrapedDate) {
				continue
			}
			latest[key] = *p
		}
	}
	return latest
}

func buildFact(rec *playerstats.Record, bio *player.Record) fact.Fact {
	f := fact.Fact{
		PlayerID:  rec.PlayerID,
		FirstName: rec.FirstName,
		Surname:   rec.Surname,
		Team:      rec.Team,
		Opponent:  rec.Opponent,
		HomeTeam:  rec.HomeTeam,
		AwayTeam:  rec.AwayTeam,
		Venue:     rec.Venue,
		Round:     rec.Round,
		MatchID:   rec.MatchID,
		Date:      rec.Date,
		Season:    rec.Season,
		Position:  rec.Position,
		Stats:     rec.Stats,
	}
	for s := playerstats.Stat(0); s < playerstats.NumStats; s++ {
		f.Stats[s] = f.Stats[s].Clean()
	}

	if bio != nil {
		f.Bio = fact.BioFromRecord(*bio)
		if !f.PlayerID.Valid() {
			f.PlayerID = bio.ID
		}
		if f.FirstName == "" && f.Surname == "" {
			f.FirstName, f.Surname = bio.FirstName, bio.Surname
		}
		if f.Team == "" {
			f.Team = bio.Team
		}
		if f.Season == 0 {
			f.Season = bio.Season
		}
		if f.Position == "" {
			f.Position = bio.Position
		}
	}
	if f.Season == 0 && !f.Date.IsZero() {
		f.Season = f.Date.Year()
	}
	f.PlayerKey = fact.PlayerKey(f.PlayerID, f.FullName(), f.Team)
	return f
}

type ambiguity struct {
	name       string
	team       string
	candidates int
	chosen     *player.Record
}

func (a *ambiguity) key() string {
	return nameTeamKey(a.name, a.team)
}

func (a *ambiguity) message() string {
	return fmt.Sprintf("%d biographical records match %q (%s); using season %d record",
		a.candidates, a.name, valueOr(a.team, "no team"), a.chosen.Season)
}

// bioIndex looks up biographical records by id and by normalized name and
// team. Lists are kept in canonical order so lookups are order independent.
type bioIndex struct {
	records []player.Record
	byID    map[int64][]*player.Record
	byName  map[string][]*player.Record
}

// newBioIndex reports ids that carry more than one record for a season; the
// first record in canonical order is the one used for that season.
func newBioIndex(players []player.Record, report *reconcile.Report) *bioIndex {
	records := make([]player.Record, len(players))
	copy(records, players)
	sort.SliceStable(records, func(i, j int) bool {
		return playerRecordLess(&records[i], &records[j])
	})

	idx := &bioIndex{
		records: records,
		byID:    make(map[int64][]*player.Record),
		byName:  make(map[string][]*player.Record),
	}
	for i := range records {
		rec := &records[i]
		if id, ok := rec.ID.Int64(); ok {
			if prev := idx.byID[id]; len(prev) > 0 && prev[len(prev)-1].Season == rec.Season {
				report.Addf(reconcile.KindAmbiguousMerge, mergeSourceDetails, 0, "player_id", rec.ID.String(),
					"%d has several biographical records for season %d; using %s",
					id, rec.Season, describeBio(prev[len(prev)-1]))
			}
			idx.byID[id] = append(idx.byID[id], rec)
		}
		if name := rec.FullName(); name != "" {
			key := nameTeamKey(name, rec.Team)
			idx.byName[key] = append(idx.byName[key], rec)
		}
	}
	return idx
}

// resolve finds the biographical record for a player in season. A known id
// is matched first; the name and team fallback only considers records that
// carry no id, unless the caller has no id either.
func (b *bioIndex) resolve(id player.ID, name, team string, season int) (*player.Record, *ambiguity) {
	if v, ok := id.Int64(); ok {
		if recs := b.byID[v]; len(recs) > 0 {
			return pickSeason(recs, season), nil
		}
	}
	if name == "" {
		return nil, nil
	}

	candidates := b.byName[nameTeamKey(name, team)]
	if id.Valid() {
		anonymous := make([]*player.Record, 0, len(candidates))
		for _, rec := range candidates {
			if !rec.ID.Valid() {
				anonymous = append(anonymous, rec)
			}
		}
		candidates = anonymous
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if !isAmbiguous(candidates) {
		return pickSeason(candidates, season), nil
	}

	chosen := mostRecent(candidates)
	return chosen, &ambiguity{name: name, team: team, candidates: len(candidates), chosen: chosen}
}

// isAmbiguous reports whether the records describe more than one player:
// different ids, or two records for the same season.
func isAmbiguous(recs []*player.Record) bool {
	ids := make(map[string]struct{}, len(recs))
	seasons := make(map[int]struct{}, len(recs))
	for _, rec := range recs {
		ids[rec.ID.String()] = struct{}{}
		if _, dup := seasons[rec.Season]; dup {
			return true
		}
		seasons[rec.Season] = struct{}{}
	}
	return len(ids) > 1
}

// pickSeason prefers the record for season, then the latest earlier season,
// then the latest season overall.
func pickSeason(recs []*player.Record, season int) *player.Record {
	var earlier *player.Record
	for _, rec := range recs {
		if rec.Season == season {
			return rec
		}
		if rec.Season < season && (earlier == nil || rec.Season > earlier.Season) {
			earlier = rec
		}
	}
	if earlier != nil {
		return earlier
	}
	return mostRecent(recs)
}

// mostRecent returns the latest-season record; the first in canonical order
// wins ties.
func mostRecent(recs []*player.Record) *player.Record {
	var best *player.Record
	for _, rec := range recs {
		if best == nil || rec.Season > best.Season {
			best = rec
		}
	}
	return best
}

// priceResolver maps a price row to the player keys of the facts it belongs
// to.
type priceResolver struct {
	bios           *bioIndex
	linkedKeys     map[*player.Record]map[string]struct{}
	factKeysByName map[string][]string
	latestSeason   map[string]int
	factIDs        map[int64]string
}

func (r *priceResolver) resolve(p *pricing.Record) ([]string, string) {
	if id, ok := p.PlayerID.Int64(); ok {
		if key, ok := r.factIDs[id]; ok {
			return []string{key}, ""
		}
	}

	names := append([]string{p.FullName}, player.NameVariants(p.FullName)...)
	for _, name := range names {
		if keys, note := r.resolveName(name, p.Team); len(keys) > 0 {
			return keys, note
		}
	}
	return nil, ""
}

func (r *priceResolver) resolveName(name, team string) ([]string, string) {
	key := nameTeamKey(name, team)

	if candidates := r.bios.byName[key]; len(candidates) > 0 {
		note := ""
		pool := candidates
		if isAmbiguous(candidates) {
			chosen := mostRecent(candidates)
			pool = []*player.Record{chosen}
			note = fmt.Sprintf("%d biographical records match price row %q; using season %d record",
				len(candidates), name, chosen.Season)
		}
		set := make(map[string]struct{})
		for _, rec := range pool {
			if id, ok := rec.ID.Int64(); ok {
				if k, ok := r.factIDs[id]; ok {
					set[k] = struct{}{}
				}
			}
			for k := range r.linkedKeys[rec] {
				set[k] = struct{}{}
			}
		}
		if keys := sortedKeys(set); len(keys) > 0 {
			return keys, note
		}
	}

	keys := r.factKeysByName[key]
	switch len(keys) {
	case 0:
		return nil, ""
	case 1:
		return []string{keys[0]}, ""
	}

	best := keys[0]
	for _, k := range keys[1:] {
		if r.latestSeason[k] > r.latestSeason[best] {
			best = k
		}
	}
	return []string{best}, fmt.Sprintf("%d players match price row %q; using the one with the latest season",
		len(keys), name)
}

func factIDs(facts []fact.Fact) map[int64]string {
	out := make(map[int64]string)
	for i := range facts {
		if id, ok := facts[i].PlayerID.Int64(); ok {
			out[id] = facts[i].PlayerKey
		}
	}
	return out
}

func nameTeamKey(name, team string) string {
	return player.NormalizeName(name) + "|" + strings.ToLower(strings.TrimSpace(team))
}

func describePlayer(f fact.Fact) string {
	if name := f.FullName(); name != "" {
		return name
	}
	return f.PlayerKey
}

func describeBio(rec *player.Record) string {
	name := valueOr(rec.FullName(), "unnamed record")
	if rec.DateOfBirth != nil {
		return name + " born " + rec.DateOfBirth.Format(time.DateOnly)
	}
	return name
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Canonical orderings. Every field that can differ takes part so that equal
// inputs in any order sort the same way.

func compareID(a, b player.ID) int {
	av, aok := a.Int64()
	bv, bok := b.Int64()
	switch {
	case aok && bok:
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
		return 0
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

func compareStrings(pairs ...string) int {
	for i := 0; i+1 < len(pairs); i += 2 {
		if c := strings.Compare(pairs[i], pairs[i+1]); c != 0 {
			return c
		}
	}
	return 0
}

func compareValues(a, b []statvalue.Value) int {
	for i := range a {
		if i >= len(b) {
			return 1
		}
		if c := strings.Compare(a[i].String(), b[i].String()); c != 0 {
			return c
		}
	}
	if len(a) < len(b) {
		return -1
	}
	return 0
}

func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func playerRecordLess(a, b *player.Record) bool {
	if c := compareID(a.ID, b.ID); c != 0 {
		return c < 0
	}
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	if c := compareDates(a.DateOfBirth, b.DateOfBirth); c != 0 {
		return c < 0
	}
	if c := compareStrings(
		player.NormalizeName(a.FullName()), player.NormalizeName(b.FullName()),
		a.Team, b.Team,
		a.FirstName, b.FirstName,
		a.Surname, b.Surname,
		a.Position, b.Position,
		a.DraftType, b.DraftType,
		a.RecruitedFrom, b.RecruitedFrom,
		a.Retired.String(), b.Retired.String(),
	); c != 0 {
		return c < 0
	}
	return compareValues(
		[]statvalue.Value{a.JumperNumber, a.HeightCM, a.WeightKG, a.DraftYear, a.DraftPosition, a.DebutYear},
		[]statvalue.Value{b.JumperNumber, b.HeightCM, b.WeightKG, b.DraftYear, b.DraftPosition, b.DebutYear},
	) < 0
}

func statRecordLess(a, b *playerstats.Record) bool {
	if c := compareID(a.PlayerID, b.PlayerID); c != 0 {
		return c < 0
	}
	if c := compareStrings(
		player.NormalizeName(a.FullName()), player.NormalizeName(b.FullName()),
		a.Team, b.Team,
	); c != 0 {
		return c < 0
	}
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if c := compareStrings(a.MatchKey(), b.MatchKey()); c != 0 {
		return c < 0
	}
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	if c := compareStrings(
		a.MatchID, b.MatchID,
		a.HomeTeam, b.HomeTeam,
		a.AwayTeam, b.AwayTeam,
		a.FirstName, b.FirstName,
		a.Surname, b.Surname,
		a.Opponent, b.Opponent,
		a.Venue, b.Venue,
		a.Round, b.Round,
		a.Position, b.Position,
	); c != 0 {
		return c < 0
	}
	return compareValues(a.Stats[:], b.Stats[:]) < 0
}

func priceRecordLess(a, b *pricing.Record) bool {
	if c := compareStrings(
		player.NormalizeName(a.FullName), player.NormalizeName(b.FullName),
		a.Team, b.Team,
	); c != 0 {
		return c < 0
	}
	if !a.ScrapedDate.Equal(b.ScrapedDate) {
		return a.ScrapedDate.Before(b.ScrapedDate)
	}
	if c := compareID(a.PlayerID, b.PlayerID); c != 0 {
		return c < 0
	}
	if c := compareStrings(a.FullName, b.FullName, a.AbbreviatedName, b.AbbreviatedName); c != 0 {
		return c < 0
	}
	return compareValues(a.Values[:], b.Values[:]) < 0
}
