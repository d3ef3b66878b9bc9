package player

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

// ID is a player identity that may be unknown. It is never inferred from a
// zero value; use NewID to mark an identity as known.
type ID struct {
	value int64
	valid bool
}

func NewID(v int64) ID {
	return ID{value: v, valid: true}
}

// ParseID reads a numeric identity. Blank, missing tokens and non-integral
// values yield an unknown ID; ok is false only for non-numeric text.
func ParseID(raw string) (ID, bool) {
	raw = strings.TrimSpace(raw)
	if statvalue.IsMissingToken(raw) {
		return ID{}, true
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return NewID(n), true
	}
	v := statvalue.Parse(raw)
	f, present := v.Float64()
	if !present || f != float64(int64(f)) {
		return ID{}, false
	}
	return NewID(int64(f)), true
}

func (id ID) Valid() bool {
	return id.valid
}

func (id ID) Int64() (int64, bool) {
	return id.value, id.valid
}

func (id ID) String() string {
	if !id.valid {
		return ""
	}
	return strconv.FormatInt(id.value, 10)
}

func (id ID) Ptr() *int64 {
	if !id.valid {
		return nil
	}
	v := id.value
	return &v
}

func IDFromPtr(p *int64) ID {
	if p == nil {
		return ID{}
	}
	return NewID(*p)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if !id.valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, id.value, 10), nil
}

// Record is one biographical row for a player in a season.
type Record struct {
	ID            ID
	FirstName     string
	Surname       string
	Team          string
	Season        int
	Position      string
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

func (r Record) FullName() string {
	return JoinName(r.FirstName, r.Surname)
}

// JoinName joins name parts with single spaces, skipping blanks.
func JoinName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

var namePunctuation = strings.NewReplacer(".", " ", "'", " ", "’", " ", "-", " ", "_", " ")

// NormalizeName folds case, punctuation and whitespace so that name joins
// tolerate formatting differences between sources. A detached "Mc" or "Mac"
// after the first name is joined to the word that follows it.
func NormalizeName(name string) string {
	parts := strings.Fields(strings.ToLower(namePunctuation.Replace(name)))
	out := parts[:0]
	for i := 0; i < len(parts); i++ {
		if i > 0 && i+1 < len(parts) && (parts[i] == "mc" || parts[i] == "mac") {
			out = append(out, parts[i]+parts[i+1])
			i++
			continue
		}
		out = append(out, parts[i])
	}
	return strings.Join(out, " ")
}
