package footywire

import (
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/net/html"

	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/domain/team"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
)

const (
	priceTableSelector = "#fantasy-prices-div table"
	playerColumn       = "Player"
	noResultsText      = "No results found."
	scrapedDateLayout  = "2006-01-02"
)

var ErrNoPriceTable = crerr.New("fantasy prices table not found")

var capitalWord = regexp.MustCompile(`[A-Z][a-z]*`)

// Loader reads saved FootyWire SuperCoach price pages. The scrape date of a
// page is the modification date of its file.
type Loader struct {
	paths  []string
	logger *logging.Logger
}

func NewLoader(paths []string, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{
		paths:  append([]string(nil), paths...),
		logger: logger,
	}
}

func (l *Loader) Load(ctx context.Context, kind source.Kind) ([]source.RawBatch, error) {
	if kind != source.KindPrice {
		return nil, nil
	}

	out := make([]source.RawBatch, 0, len(l.paths))
	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.InfoContext(ctx, "price page parsed", "path", path, "rows", len(rows))
		out = append(out, source.RawBatch{Kind: source.KindPrice, Origin: path, Rows: rows})
	}
	return out, nil
}

func parseFile(path string) ([]source.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, crerr.Wrapf(err, "stat %s", path)
	}
	rows, err := ParsePrices(f, info.ModTime())
	if err != nil {
		return nil, crerr.Wrapf(err, "parse %s", path)
	}
	return rows, nil
}

// ParsePrices extracts the price table as raw rows keyed by the page's column
// headers. The Player cell is split into full_name, abbreviated_name and team.
func ParsePrices(r io.Reader, scrapedAt time.Time) ([]source.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, crerr.Wrap(err, "parse html")
	}

	table := doc.Find(priceTableSelector).First()
	if table.Length() == 0 {
		return nil, ErrNoPriceTable
	}

	trs := table.Find("tr")
	if trs.Length() == 0 {
		return nil, nil
	}

	var header []string
	trs.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		header = append(header, strings.Join(textPieces(cell), ""))
	})

	scraped := scrapedAt.Format(scrapedDateLayout)
	rows := make([]source.Row, 0, trs.Length())
	trs.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		if cells.Length() == 0 {
			return
		}

		row := make(source.Row, len(header)+4)
		skip := false
		cells.Each(func(i int, cell *goquery.Selection) {
			if i >= len(header) {
				return
			}
			pieces := textPieces(cell)
			value := strings.Join(pieces, "")
			row[header[i]] = value
			if header[i] != playerColumn {
				return
			}
			if value == noResultsText {
				skip = true
				return
			}
			full, abbrev, nickname := splitPieces(pieces)
			row[source.FieldFullName] = full
			row[source.FieldAbbreviatedName] = abbrev
			row[source.FieldTeam] = nickname
		})
		if skip {
			return
		}
		for _, col := range header {
			if _, ok := row[col]; !ok {
				row[col] = ""
			}
		}
		row[source.FieldScrapedDate] = scraped
		rows = append(rows, row)
	})
	return rows, nil
}

// textPieces returns the trimmed non-empty text nodes under cell in document
// order.
func textPieces(cell *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out = append(out, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range cell.Nodes {
		walk(n)
	}
	return out
}

// splitPieces uses the cell's own markup when it already separates the three
// parts, and falls back to splitting the flattened text.
func splitPieces(pieces []string) (string, string, string) {
	if len(pieces) == 3 && team.IsNickname(pieces[2]) {
		return pieces[0], pieces[1], pieces[2]
	}
	return SplitPlayerCell(strings.Join(pieces, ""))
}

// SplitPlayerCell splits a flattened Player cell such as
// "Tristan XerriT XerriKangaroos" into full name, abbreviated name and team
// nickname. Parts that cannot be found are empty.
func SplitPlayerCell(raw string) (full, abbrev, nickname string) {
	raw = strings.TrimSpace(raw)
	parts := capitalWord.FindAllString(raw, -1)
	if len(parts) < 3 {
		return raw, "", ""
	}

	if last := parts[len(parts)-1]; team.IsNickname(last) {
		nickname = last
		parts = parts[:len(parts)-1]
	}

	if split := bestSplit(parts); split > 0 {
		return strings.Join(parts[:split], " "), strings.Join(parts[split:], " "), nickname
	}
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) == 1 {
			return strings.Join(parts[:i], " "), strings.Join(parts[i:], " "), nickname
		}
	}
	return strings.Join(parts, " "), "", nickname
}

// bestSplit scores each single-letter part as the start of the abbreviated
// name. A surname shared by both halves weighs most. Zero means no split
// scored at least 3.
func bestSplit(parts []string) int {
	best, bestScore := 0, 0
	for i := 1; i < len(parts)-1; i++ {
		if len(parts[i]) != 1 {
			continue
		}
		fullParts, abbrevParts := parts[:i], parts[i:]
		score := 2
		if len(fullParts) >= 2 {
			score++
			if len(abbrevParts) >= 2 {
				score += 3 * commonParts(fullParts[1:], abbrevParts[1:])
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore < 3 {
		return 0
	}
	return best
}

func commonParts(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, p := range a {
		set[p] = struct{}{}
	}
	n := 0
	for _, p := range b {
		if _, ok := set[p]; ok {
			n++
			delete(set, p)
		}
	}
	return n
}
