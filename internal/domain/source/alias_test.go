package source

import (
	"reflect"
	"testing"
)

func TestResolveKeepsPriorityOrder(t *testing.T) {
	table := DefaultAliases(KindStats)
	resolved := table.Resolve([]string{"match_date", "Date", "utcStartTime", "goals"})

	want := []string{"utcStartTime", "Date", "match_date"}
	if got := resolved[FieldDate]; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected resolved date columns: got=%v want=%v", got, want)
	}
	if got := resolved[FieldVenue]; got != nil {
		t.Fatalf("expected no venue columns, got=%v", got)
	}
}

func TestLookupSkipsBlankColumns(t *testing.T) {
	table := DefaultAliases(KindStats).Resolve([]string{"utcStartTime", "date"})
	row := Row{"utcStartTime": " NA ", "date": "2024-03-14"}

	v, col, ok := table.Lookup(row, FieldDate)
	if !ok || v != "2024-03-14" || col != "date" {
		t.Fatalf("unexpected lookup: value=%q column=%q ok=%v", v, col, ok)
	}
	if _, _, ok := table.Lookup(Row{}, FieldDate); ok {
		t.Fatalf("expected no value for empty row")
	}
}

func TestParseAliasYAML(t *testing.T) {
	doc := []byte(`
stats:
  date: [kickoff, date]
price:
  team: [club_nickname]
`)
	aliases, err := ParseAliasYAML(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := aliases.For(KindStats)[FieldDate]
	want := []string{"kickoff", "date", "utcStartTime", "Date", "match_date", "match.date"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected date aliases: got=%v want=%v", got, want)
	}
	if got := aliases.For(KindPrice)[FieldTeam][0]; got != "club_nickname" {
		t.Fatalf("unexpected first team alias: got=%q", got)
	}
	if got := aliases.For(KindDetails)[FieldTeam]; !reflect.DeepEqual(got, teamAliases) {
		t.Fatalf("expected details table untouched, got=%v", got)
	}

	if _, err := ParseAliasYAML([]byte("odds:\n  x: [y]\n")); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestDefaultAliasesAreIndependentCopies(t *testing.T) {
	a := DefaultAliases(KindDetails)
	a[FieldTeam][0] = "mutated"
	if DefaultAliases(KindDetails)[FieldTeam][0] != "team" {
		t.Fatalf("expected defaults to be unaffected by caller mutation")
	}
}

func TestHeader(t *testing.T) {
	got := Header([]Row{{"b": "1", "a": "2"}, {"c": "3", "a": "4"}})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected header: %v", got)
	}
}
