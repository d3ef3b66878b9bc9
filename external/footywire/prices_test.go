package footywire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/source"
)

const pricePage = `<html><body>
<div id="other"><table><tr><td>ignore me</td></tr></table></div>
<div id="fantasy-prices-div">
<table>
<tr><th>Player</th><th>Current</th><th>Total Change</th><th>Change %</th></tr>
<tr><td><a href="#">Tristan Xerri</a><span>T Xerri</span><span>Kangaroos</span></td><td>$731,200</td><td>$12,000</td><td>+6.00%</td></tr>
<tr><td>Massimo D Ambrosio M D Ambrosio Hawks</td><td>$402,100</td><td>-$20,300</td></tr>
<tr><td>No results found.</td></tr>
</table>
</div>
</body></html>`

func TestSplitPlayerCell(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		full     string
		abbrev   string
		nickname string
	}{
		{"Tristan XerriT XerriKangaroos", "Tristan Xerri", "T Xerri", "Kangaroos"},
		{"Massimo D Ambrosio M D Ambrosio Hawks", "Massimo D Ambrosio", "M D Ambrosio", "Hawks"},
		{"Nick DaicosN DaicosMagpies", "Nick Daicos", "N Daicos", "Magpies"},
		{"Marcus BontempelliM BontempelliBulldogs", "Marcus Bontempelli", "M Bontempelli", "Bulldogs"},
		{"Jack Gunston", "Jack Gunston", "", ""},
		{"Charlie CameronC Cameron", "Charlie Cameron", "C Cameron", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			full, abbrev, nickname := SplitPlayerCell(tc.in)
			if full != tc.full || abbrev != tc.abbrev || nickname != tc.nickname {
				t.Fatalf("unexpected split: got=(%q, %q, %q) want=(%q, %q, %q)",
					full, abbrev, nickname, tc.full, tc.abbrev, tc.nickname)
			}
		})
	}
}

func TestParsePrices(t *testing.T) {
	t.Parallel()

	scraped := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	rows, err := ParsePrices(strings.NewReader(pricePage), scraped)
	if err != nil {
		t.Fatalf("parse prices: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", len(rows))
	}

	first := rows[0]
	want := map[string]string{
		"full_name":        "Tristan Xerri",
		"abbreviated_name": "T Xerri",
		"team":             "Kangaroos",
		"Current":          "$731,200",
		"Change %":         "+6.00%",
		"scraped_date":     "2025-06-03",
	}
	for col, v := range want {
		if first[col] != v {
			t.Fatalf("unexpected %s: got=%q want=%q", col, first[col], v)
		}
	}

	second := rows[1]
	if second["full_name"] != "Massimo D Ambrosio" || second["team"] != "Hawks" {
		t.Fatalf("unexpected second row: %v", second)
	}
	if v, ok := second["Change %"]; !ok || v != "" {
		t.Fatalf("short row should carry an empty Change %% cell, got=%q present=%t", v, ok)
	}
}

func TestParsePricesWithoutTable(t *testing.T) {
	t.Parallel()

	_, err := ParsePrices(strings.NewReader("<html><body><p>maintenance</p></body></html>"), time.Now())
	if !errors.Is(err, ErrNoPriceTable) {
		t.Fatalf("expected ErrNoPriceTable, got=%v", err)
	}
}

func TestLoaderUsesFileDate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "supercoach_prices.html")
	if err := os.WriteFile(path, []byte(pricePage), 0o600); err != nil {
		t.Fatalf("write page: %v", err)
	}
	mod := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("set file time: %v", err)
	}

	loader := NewLoader([]string{path}, nil)
	batches, err := loader.Load(context.Background(), source.KindPrice)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(batches) != 1 || batches[0].Origin != path || len(batches[0].Rows) != 2 {
		t.Fatalf("unexpected batches: %+v", batches)
	}
	if got := batches[0].Rows[0]["scraped_date"]; got != mod.Local().Format("2006-01-02") {
		t.Fatalf("unexpected scraped date: %q", got)
	}

	other, err := loader.Load(context.Background(), source.KindStats)
	if err != nil || other != nil {
		t.Fatalf("non-price kinds should load nothing: %v %v", other, err)
	}
}
