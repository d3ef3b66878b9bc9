package pricing

import (
	"strings"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

// Field identifies a numeric SuperCoach price column.
type Field int

const (
	CurrentPrice Field = iota
	TotalChange
	ChangePercentage
	LastChange
	ExpectedPrice
	ExpectedChange
	ExpectedPrice2
	ExpectedChange2
	ExpectedPrice3
	ExpectedChange3

	NumFields
)

var fieldKeys = [NumFields]string{
	"current_price",
	"total_change",
	"change_percentage",
	"last_change",
	"expected_price",
	"expected_change",
	"expected_price_2",
	"expected_change_2",
	"expected_price_3",
	"expected_change_3",
}

// fieldAliases lists the scraped page headers for each field after the
// canonical key.
var fieldAliases = [NumFields][]string{
	{"current_price", "Current", "price"},
	{"total_change", "Total Change"},
	{"change_percentage", "Change %", "change_pct"},
	{"last_change", "Last Change"},
	{"expected_price", "Expected Price 1", "Expected Price"},
	{"expected_change", "Expected Change 1", "Expected Change"},
	{"expected_price_2", "Expected Price 2"},
	{"expected_change_2", "Expected Change 2"},
	{"expected_price_3", "Expected Price 3"},
	{"expected_change_3", "Expected Change 3"},
}

func (f Field) Valid() bool {
	return f >= 0 && f < NumFields
}

func (f Field) Key() string {
	if !f.Valid() {
		return ""
	}
	return fieldKeys[f]
}

func (f Field) Aliases() []string {
	if !f.Valid() {
		return nil
	}
	out := make([]string, len(fieldAliases[f]))
	copy(out, fieldAliases[f])
	return out
}

func (f Field) String() string {
	return f.Key()
}

func LookupField(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, key := range fieldKeys {
		if key == name {
			return Field(i), true
		}
	}
	return 0, false
}

// Values holds one value per price field.
type Values [NumFields]statvalue.Value

// Record is one scraped SuperCoach price row.
type Record struct {
	FullName        string
	AbbreviatedName string
	Team            string
	PlayerID        player.ID
	Values          Values
	ScrapedDate     time.Time
}

func (r Record) Get(f Field) statvalue.Value {
	if !f.Valid() {
		return statvalue.Missing()
	}
	return r.Values[f]
}
